// Package output writes exported feature text to stdout or a PDF file
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/pkg/pdfexport"
)

// Export describes where exported text goes
type Export struct {
	// PDFPath writes a PDF when set, otherwise text goes to Stdout
	PDFPath string
	Title   string
	Stdout  io.Writer
}

// Write writes the text of an export
func (e *Export) Write(text string) error {
	if e.PDFPath == "" {
		out := e.Stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := fmt.Fprintln(out, text)
		return err
	}

	renderer, err := pdfexport.New(&pdfexport.Config{Title: e.Title})
	if err != nil {
		return err
	}

	f, err := os.Create(e.PDFPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", e.PDFPath)
	}

	if err := renderer.Render(f, text); err != nil {
		_ = f.Close() // nolint:errcheck // render error wins
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", e.PDFPath)
	}
	return nil
}

// Missing reports names that could not be located
func Missing(w io.Writer, names []string) {
	for _, name := range names {
		fmt.Fprintf(w, "feature not found: %s\n", name)
	}
}
