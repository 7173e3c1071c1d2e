package cli

import (
	"net/url"

	"github.com/spf13/cobra"
	"github.com/vfg2006/ad-review-dashboard/internal/api/handler"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

// filterFlags espelha os parâmetros de filtro da API, a validação é a mesma.
type filterFlags struct {
	account          string
	statuses         []string
	subStatuses      []string
	errorTypes       []string
	createdFrom      string
	createdTo        string
	statusChangeFrom string
	statusChangeTo   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "Ad account id (act_...)")
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "Status filter (APPROVED, DISAPPROVED)")
	cmd.Flags().StringSliceVar(&f.subStatuses, "sub-status", nil, "Effective status filter")
	cmd.Flags().StringSliceVar(&f.errorTypes, "error-type", nil, "Rejection error type filter")
	cmd.Flags().StringVar(&f.createdFrom, "created-from", "", "Created at lower bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.createdTo, "created-to", "", "Created at upper bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.statusChangeFrom, "status-change-from", "", "Status change lower bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.statusChangeTo, "status-change-to", "", "Status change upper bound (YYYY-MM-DD)")
}

func (f *filterFlags) parse() (domain.AdEventFilters, error) {
	query := url.Values{}
	set := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}

	set("ad_account_id", f.account)
	set("created_from", f.createdFrom)
	set("created_to", f.createdTo)
	set("status_change_from", f.statusChangeFrom)
	set("status_change_to", f.statusChangeTo)
	query["status"] = f.statuses
	query["sub_status"] = f.subStatuses
	query["error_type"] = f.errorTypes

	return handler.ParseFilters(query)
}
