package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fieldmatch/internal/config"
)

// errReported marks a failure the command has already shown to the user.
var errReported = errors.New("error already reported")

var (
	flagEnv    string
	flagConfig string

	globalConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fieldmatch",
	Short: "Semantic schema field matching",
	Long: `Field Matcher finds the target schema fields that best correspond to an input field.

Fields are described by handle, label, type and an optional description, embedded with an
OpenAI-compatible model, and ranked by cosine similarity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", config.GetEnv(), "config environment (reads config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "explicit config file path (overrides --env)")
}

// loadConfig reads --config when set, otherwise config/<env>.yaml, falling back to
// built-in defaults when that file does not exist.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig) //nolint:wrapcheck // caller wraps
	}
	return config.LoadOrDefault(flagEnv) //nolint:wrapcheck // caller wraps
}
