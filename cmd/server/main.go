// Package main is the entry point for the feature service and its CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-features/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-features",
	Short: "RPG feature description engine",
	Long: `rpg-features resolves class, species and background feature descriptions
against a character's ability scores and serves them over gRPC, as text or as PDF.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogSource, "catalog-source", "", "Catalog source: yaml or redis")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Catalog directory for the yaml source")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the redis source")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
