// Package client provides commands that call a running feature server
package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/rpg-features/cmd/server/flags"
	"github.com/KirkDiggler/rpg-features/cmd/server/output"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/handlers/features/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration

	describeCharacter flags.Character
	exportCharacter   flags.Character
	exportPDF         string
	exportTitle       string
	rollMethod        string
	rollID            string
)

// ClientCmd is the root command for all remote commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Call a running feature server",
	Long:  `Client commands make real gRPC requests against a feature server.`,
}

var describeCmd = &cobra.Command{
	Use:   "describe NAME [NAME...]",
	Short: "Render feature descriptions remotely",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDescribe,
}

var exportCmd = &cobra.Command{
	Use:   "export NAME [NAME...]",
	Short: "Format features for a character sheet remotely",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

var rollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Roll a set of ability scores",
	RunE:  runRoll,
}

func init() {
	// Add persistent flags for all client commands
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&rollID, "roll-id", "", "Stored roll to fill unset ability scores from")

	describeCharacter.Register(describeCmd)

	exportCharacter.Register(exportCmd)
	exportCmd.Flags().StringVar(&exportPDF, "pdf", "", "Write a PDF to this path instead of printing text")
	exportCmd.Flags().StringVar(&exportTitle, "title", "Features", "PDF document title")

	rollCmd.Flags().StringVar(&rollMethod, "method", "", "Rolling method")

	ClientCmd.AddCommand(describeCmd)
	ClientCmd.AddCommand(exportCmd)
	ClientCmd.AddCommand(rollCmd)
}

// createClient creates a feature service client
func createClient() (*v1alpha1.Client, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	client := v1alpha1.NewClient(conn)
	if rollID != "" {
		client = client.WithRoll(rollID)
	}
	return client, cleanup, nil
}

// characterContext rolls remotely when --roll is set
func characterContext(ctx context.Context, client *v1alpha1.Client, c *flags.Character) (*features.CharacterContext, error) {
	var rolled features.AbilityScores
	if c.Roll {
		out, err := client.RollAbilityScores(ctx, c.Method)
		if err != nil {
			return nil, fmt.Errorf("failed to roll ability scores: %w", err)
		}
		rolled = out.Scores
	}
	return c.Context(rolled), nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	character, err := characterContext(ctx, client, &describeCharacter)
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range args {
		out, err := client.GetFeatureDescription(ctx, name, character, describeCharacter.Hints())
		if errors.IsNotFound(err) {
			missing = append(missing, name)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to describe %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", out.Name, out.Description)
	}

	if len(missing) > 0 {
		output.Missing(os.Stderr, missing)
		return errors.FeaturesNotFound(missing, len(args))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	character, err := characterContext(ctx, client, &exportCharacter)
	if err != nil {
		return err
	}

	out, err := client.FormatFeaturesForPDF(ctx, args, character, exportCharacter.Hints())
	if err != nil {
		return fmt.Errorf("failed to export features: %w", err)
	}

	output.Missing(os.Stderr, out.Missing)

	export := &output.Export{
		PDFPath: exportPDF,
		Title:   exportTitle,
		Stdout:  cmd.OutOrStdout(),
	}
	return export.Write(out.Text)
}

func runRoll(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	out, err := client.RollAbilityScores(ctx, rollMethod)
	if err != nil {
		return fmt.Errorf("failed to roll ability scores: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Method: %s\n", out.Method)
	for _, ability := range features.Abilities {
		score := out.Scores[ability]
		fmt.Fprintf(cmd.OutOrStdout(), "%s %2d (%+d)\n", ability, score, features.Modifier(score))
	}
	if out.RollID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Roll ID: %s (use with --roll-id)\n", out.RollID)
	}
	return nil
}
