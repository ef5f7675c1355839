package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-features/cmd/server/flags"
	"github.com/KirkDiggler/rpg-features/cmd/server/output"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	featureorch "github.com/KirkDiggler/rpg-features/internal/orchestrators/features"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
)

var (
	describeCharacter flags.Character
	describeRaw       bool
)

var describeCmd = &cobra.Command{
	Use:   "describe NAME [NAME...]",
	Short: "Render feature descriptions against a character",
	Long: `Render one or more feature descriptions from the local catalogs.
Computed values use the ability scores given by flags or rolled with --roll.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCharacter.Register(describeCmd)
	describeCmd.Flags().BoolVar(&describeRaw, "raw", false, "Print the feature records as YAML instead")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newServices(ctx, false)
	if err != nil {
		return err
	}
	defer svc.cleanup()

	describeCharacter.DefaultLevel = cfg.DefaultLevel
	character, err := svc.characterContext(ctx, &describeCharacter)
	if err != nil {
		return err
	}

	var missing []string
	for i, name := range args {
		out, err := svc.features.GetFeatureDescription(ctx, &featureorch.GetFeatureDescriptionInput{
			Name:      name,
			Character: character,
			Hints:     describeCharacter.Hints(),
		})
		if err != nil {
			return err
		}
		if !out.Found {
			missing = append(missing, name)
			continue
		}

		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if describeRaw {
			data, err := yaml.Marshal(catalog.NewFeatureDocument(out.Feature))
			if err != nil {
				return errors.Wrap(err, "failed to encode feature")
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", out.Feature.Name, out.Description)
	}

	if len(missing) > 0 {
		output.Missing(os.Stderr, missing)
		return errors.FeaturesNotFound(missing, len(args))
	}
	return nil
}
