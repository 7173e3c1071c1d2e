package moderation

import (
	"time"

	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

type accountUnit struct {
	accountID      string
	businessUnitID string
}

// BuildSummary monta uma linha por par (conta, buid) distinto, na ordem em que o par
// aparece. Pares com buid nulo não entram. As contagens olham a conta inteira:
// publicados por created_at, reprovados por status_change_date.
func BuildSummary(ds *Dataset, now time.Time) []domain.SummaryRow {
	pairs := make([]accountUnit, 0)
	seen := make(map[accountUnit]struct{})
	for i := range ds.records {
		r := &ds.records[i]
		if r.BusinessUnitID == nil {
			continue
		}
		pair := accountUnit{accountID: r.AdAccountID, businessUnitID: *r.BusinessUnitID}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return []domain.SummaryRow{}
	}

	parts := ds.partitionByAccount()
	rows := make([]domain.SummaryRow, 0, len(pairs))
	for _, pair := range pairs {
		account := parts[pair.accountID]

		published := func(w domain.Window) int {
			return WindowedCount(account, domain.DateFieldCreatedAt, w, now)
		}
		rejected := func(w domain.Window) int {
			return WindowedCount(account, domain.DateFieldStatusChangeAt, w, now, domain.AdStatusDisapproved)
		}

		rows = append(rows, domain.SummaryRow{
			BusinessUnitID:           pair.businessUnitID,
			AdAccountID:              pair.accountID,
			LifetimePublishedAds:     published(domain.WindowLifetime),
			LifetimeRejectedAds:      rejected(domain.WindowLifetime),
			Last30DaysPublishedAds:   published(domain.WindowLast30Days),
			Last30DaysRejectedAds:    rejected(domain.WindowLast30Days),
			CurrentMonthPublishedAds: published(domain.WindowCurrentMonthToDate),
			CurrentMonthRejectedAds:  rejected(domain.WindowCurrentMonthToDate),
			YesterdayPublishedAds:    published(domain.WindowYesterday),
			YesterdayRejectedAds:     rejected(domain.WindowYesterday),
		})
	}

	return rows
}
