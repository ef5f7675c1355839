// Package pdfexport renders sanitized feature text into a PDF document.
// [[BOLD:...]] and [[ITALIC:...]] markers become core-font style runs.
package pdfexport

import (
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/KirkDiggler/rpg-features/internal/engine/sanitize"
	"github.com/KirkDiggler/rpg-features/internal/errors"
)

const (
	defaultFontFamily = "Helvetica"
	defaultFontSize   = 11
	defaultMargin     = 18
)

// Run is a span of text with one style
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

func (r Run) style() string {
	s := ""
	if r.Bold {
		s += "B"
	}
	if r.Italic {
		s += "I"
	}
	return s
}

// Runs splits marker-styled text into runs. Markers may nest; a closing "]]"
// with no open marker is literal text. Unclosed markers style the rest of the text.
func Runs(text string) []Run {
	var (
		runs    []Run
		current strings.Builder
		stack   []string
	)

	hasStyle := func(prefix string) bool {
		for _, p := range stack {
			if p == prefix {
				return true
			}
		}
		return false
	}
	flush := func() {
		if current.Len() == 0 {
			return
		}
		runs = append(runs, Run{
			Text:   current.String(),
			Bold:   hasStyle(sanitize.BoldPrefix),
			Italic: hasStyle(sanitize.ItalicPrefix),
		})
		current.Reset()
	}

	for i := 0; i < len(text); {
		rest := text[i:]
		switch {
		case strings.HasPrefix(rest, sanitize.BoldPrefix):
			flush()
			stack = append(stack, sanitize.BoldPrefix)
			i += len(sanitize.BoldPrefix)
		case strings.HasPrefix(rest, sanitize.ItalicPrefix):
			flush()
			stack = append(stack, sanitize.ItalicPrefix)
			i += len(sanitize.ItalicPrefix)
		case strings.HasPrefix(rest, sanitize.MarkerSuffix) && len(stack) > 0:
			flush()
			stack = stack[:len(stack)-1]
			i += len(sanitize.MarkerSuffix)
		default:
			current.WriteByte(text[i])
			i++
		}
	}
	flush()
	return runs
}

// Config configures the document
type Config struct {
	Title      string
	FontFamily string
	FontSize   float64
}

// Validate validates the Config
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.FontSize < 0 {
		return errors.InvalidArgument("font size must not be negative")
	}
	return nil
}

// Renderer writes A4 portrait PDFs
type Renderer struct {
	title      string
	fontFamily string
	fontSize   float64
}

// New creates a renderer
func New(cfg *Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		title:      cfg.Title,
		fontFamily: cfg.FontFamily,
		fontSize:   cfg.FontSize,
	}
	if r.fontFamily == "" {
		r.fontFamily = defaultFontFamily
	}
	if r.fontSize == 0 {
		r.fontSize = defaultFontSize
	}
	return r, nil
}

// Render writes text as a PDF to w
func (r *Renderer) Render(w io.Writer, text string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(defaultMargin, defaultMargin, defaultMargin)
	pdf.SetAutoPageBreak(true, defaultMargin)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	pdf.SetCreator("rpg-features", false)
	pdf.AddPage()

	// core fonts are cp1252, which the sanitizer already restricts text to
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	lineHeight := r.fontSize * 0.5

	if r.title != "" {
		pdf.SetFont(r.fontFamily, "B", r.fontSize+4)
		pdf.Write(lineHeight+2, translate(r.title))
		pdf.Ln(lineHeight * 2)
	}

	for _, run := range Runs(text) {
		pdf.SetFont(r.fontFamily, run.style(), r.fontSize)
		lines := strings.Split(run.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				pdf.Ln(lineHeight)
			}
			if line != "" {
				pdf.Write(lineHeight, translate(line))
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to write pdf")
	}
	return nil
}
