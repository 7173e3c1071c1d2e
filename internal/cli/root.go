// Package cli implementa o adsctl, a ferramenta de linha de comando do painel.
package cli

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/cache"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	version = "dev"
	commit  = "none"
)

// deps isola as conexões externas para os comandos poderem ser testados com mocks.
type deps struct {
	loadConfig        func() (*config.Config, error)
	openReporting     func(ctx context.Context, cfg *config.Config) (moderation.ReportingService, func(), error)
	openSnapshotStore func(ctx context.Context, cfg *config.Config) (cache.SnapshotStore, func(), error)
}

func defaultDeps() *deps {
	return &deps{
		loadConfig:        config.NewConfig,
		openReporting:     openReporting,
		openSnapshotStore: openSnapshotStore,
	}
}

// Execute roda o CLI e devolve o código de saída.
func Execute() int {
	rootCmd := newRootCmd(defaultDeps())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(d *deps) *cobra.Command {
	var (
		output   string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "adsctl",
		Short:         "Ad review dashboard CLI",
		Long:          "Command-line access to the ad moderation reports, exports and operator tokens.",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			return log.Configure(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newSummaryCmd(d))
	rootCmd.AddCommand(newExportCmd(d))
	rootCmd.AddCommand(newTokenCmd(d))
	rootCmd.AddCommand(newCacheCmd(d))

	return rootCmd
}

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
