package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(d *deps) *cobra.Command {
	var filterFlags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the per-account moderation summary",
		Example: `  adsctl summary
  adsctl summary --account act_123 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			report, err := service.Summary(cmd.Context(), filters)
			if err != nil {
				return fmt.Errorf("summary: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd, report)
			}

			if report.AccountNotFound {
				fmt.Fprintln(cmd.ErrOrStderr(), report.Message)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BUID\tACCOUNT\tLIFETIME\tLIFETIME REJ\t30D\t30D REJ\tMTD\tMTD REJ\tYESTERDAY\tYESTERDAY REJ")
			for _, row := range report.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
					row.BusinessUnitID, row.AdAccountID,
					row.LifetimePublishedAds, row.LifetimeRejectedAds,
					row.Last30DaysPublishedAds, row.Last30DaysRejectedAds,
					row.CurrentMonthPublishedAds, row.CurrentMonthRejectedAds,
					row.YesterdayPublishedAds, row.YesterdayRejectedAds,
				)
			}
			return tw.Flush()
		},
	}

	filterFlags.register(cmd)
	return cmd
}
