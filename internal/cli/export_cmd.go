package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/ad-review-dashboard/internal/export"
)

func newExportCmd(d *deps) *cobra.Command {
	var (
		filterFlags filterFlags
		format      string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered ad events as CSV or XLSX",
		Example: `  adsctl export --format xlsx
  adsctl export --status DISAPPROVED --out - > rejected.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			filters, err := filterFlags.parse()
			if err != nil {
				return err
			}

			cfg, err := d.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			service, closeAll, err := d.openReporting(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer closeAll()

			table, err := service.ExportTable(cmd.Context(), filters)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "-" {
				if outPath == "" {
					outPath = export.FileName(time.Now(), exportFormat)
				}
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if err := export.Write(w, exportFormat, table); err != nil {
				return err
			}

			if outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(table.Rows), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "File format (csv, xlsx)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path, '-' for stdout (default ads_data_<timestamp>.<format>)")
	filterFlags.register(cmd)

	return cmd
}
