package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/config"
	"github.com/webtrail/webtrail-cli/internal/log"
	"github.com/webtrail/webtrail-cli/internal/output"
	"github.com/webtrail/webtrail-cli/internal/store"
	"github.com/webtrail/webtrail-cli/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "webtrail",
	Short: "Record web page interactions into reproducible bug reports",
	Long: `A CLI tool that records user interactions on a web page (clicks, input,
navigation, console output, screenshots) into an ordered, deduplicated step
log, then renders the log into human-readable bug reports.`,
}

// limits is loaded once per invocation by the root PersistentPreRunE.
var limits config.Limits

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file with recorder limits")
	rootCmd.PersistentFlags().String("state-dir", "", "Override the state directory (default ~/.webtrail)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log.InitializeDefaultLogger()

		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		var err error
		limits, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if stateDir, _ := rootCmd.PersistentFlags().GetString("state-dir"); stateDir != "" {
			limits.StateDir = stateDir
		}

		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags (e.g. report --format rtf).
		format, _ := rootCmd.PersistentFlags().GetString("format")

		// Smart default: piped output (agent context) gets JSON, a
		// terminal gets YAML.
		if format == "" {
			if output.IsOutputPiped() {
				format = "json"
			} else {
				format = "yaml"
			}
		}

		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
			if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
				output.PrettyOutput = true
			}
		}
		return nil
	}
}

// openStore opens the persistence gateway under the configured state dir.
func openStore() (*store.Store, error) {
	dir, err := limits.ResolveStateDir()
	if err != nil {
		return nil, err
	}
	return store.Open(dir, limits)
}
