// Package cli implements the airshape developer tool.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	airtable "github.com/tablekit/airtable.go"
	"github.com/tablekit/airtable.go/internal/codec"
	"github.com/tablekit/airtable.go/pkg/logger"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	strictFlag bool

	// Version is injected during build
	Version = "dev"

	cfg     *airtable.Config
	logData *logger.LogData

	jsonCodec = codec.JSONCodec{Indent: "  "}
)

var rootCmd = &cobra.Command{
	Use:   "airshape",
	Short: "airshape inspects and validates Airtable wire payloads",
	Long: `airshape validates JSON payloads against the wire shapes of the Airtable API,
prints their JSON Schema and parses them into the built-in models.

Settings come from an optional YAML file (--config) and the AIRTABLE_STRICT,
AIRTABLE_LOG_LEVEL and AIRTABLE_LOG_PATH environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Version:           Version,
	PersistentPreRunE: loadConfig,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if logData == nil {
			return nil
		}
		err := logData.Close()
		logData = nil
		return err
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "reject keys the shape does not declare")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg = airtable.NewConfig()
	if configPath != "" {
		if cfg, err = airtable.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = strictFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if logData, err = cfg.NewLogger(cmd.ErrOrStderr()); err != nil {
		return err
	}
	return nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func writeJSON(w io.Writer, v any) error {
	return jsonCodec.NewEncoder(w).Encode(v)
}
