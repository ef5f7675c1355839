package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-features/cmd/server/flags"
	"github.com/KirkDiggler/rpg-features/cmd/server/output"
	featureorch "github.com/KirkDiggler/rpg-features/internal/orchestrators/features"
)

var (
	exportCharacter flags.Character
	exportPDF       string
	exportTitle     string
)

var exportCmd = &cobra.Command{
	Use:   "export NAME [NAME...]",
	Short: "Format features for a character sheet",
	Long: `Format features as character sheet entries, one bold heading per feature.
Features that cannot be found are listed as bullets. Use --pdf to write a PDF file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCharacter.Register(exportCmd)
	exportCmd.Flags().StringVar(&exportPDF, "pdf", "", "Write a PDF to this path instead of printing text")
	exportCmd.Flags().StringVar(&exportTitle, "title", "Features", "PDF document title")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newServices(ctx, false)
	if err != nil {
		return err
	}
	defer svc.cleanup()

	exportCharacter.DefaultLevel = cfg.DefaultLevel
	character, err := svc.characterContext(ctx, &exportCharacter)
	if err != nil {
		return err
	}

	out, err := svc.features.FormatFeaturesForPDF(ctx, &featureorch.FormatFeaturesForPDFInput{
		Names:     args,
		Character: character,
		Hints:     exportCharacter.Hints(),
	})
	if err != nil {
		return err
	}

	output.Missing(os.Stderr, out.Missing)

	export := &output.Export{
		PDFPath: exportPDF,
		Title:   exportTitle,
		Stdout:  cmd.OutOrStdout(),
	}
	return export.Write(out.Text)
}
