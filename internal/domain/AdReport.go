package domain

import (
	"time"
)

// GroupField é uma coluna aceita como chave de agrupamento.
type GroupField string

const (
	GroupByAdAccountID    GroupField = "ad_account_id"
	GroupByStatusChangeAt GroupField = "status_change_date"
	GroupByErrorType      GroupField = "error_type"
)

// Combinações de chaves exibidas pelo painel de agrupamentos.
var (
	GroupByAccount             = []GroupField{GroupByAdAccountID}
	GroupByDate                = []GroupField{GroupByStatusChangeAt}
	GroupByDateAndError        = []GroupField{GroupByStatusChangeAt, GroupByErrorType}
	GroupByAccountAndDate      = []GroupField{GroupByAdAccountID, GroupByStatusChangeAt}
	GroupByAccountAndError     = []GroupField{GroupByAdAccountID, GroupByErrorType}
	GroupByError               = []GroupField{GroupByErrorType}
	GroupByAccountDateAndError = []GroupField{GroupByAdAccountID, GroupByStatusChangeAt, GroupByErrorType}
)

type GroupRow struct {
	AdAccountID    string     `json:"ad_account_id,omitempty"`
	StatusChangeAt *time.Time `json:"status_change_date,omitempty"`
	ErrorType      string     `json:"error_type,omitempty"`
	Count          int        `json:"no_of_ads"`
}

type AccountRejections struct {
	AdAccountID    string  `json:"ad_account_id"`
	BusinessUnitID *string `json:"buid"`
	RejectedCount  int     `json:"rejected_ads"`
}

// HourBucket é uma faixa [Start, End) de uma hora. Label é preenchido na
// apresentação, no fuso de exibição.
type HourBucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Count int       `json:"count"`
	Label string    `json:"label,omitempty"`
}

type HourOfDayCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type ErrorTypeCount struct {
	ErrorType string `json:"error_type"`
	Count     int    `json:"count"`
}

type SummaryRow struct {
	BusinessUnitID           string `json:"buid"`
	AdAccountID              string `json:"ad_account_id"`
	LifetimePublishedAds     int    `json:"lifetime_published_ads"`
	LifetimeRejectedAds      int    `json:"lifetime_rejected_ads"`
	Last30DaysPublishedAds   int    `json:"last_30_days_published_ads"`
	Last30DaysRejectedAds    int    `json:"last_30_days_rejected_ads"`
	CurrentMonthPublishedAds int    `json:"current_month_published_ads"`
	CurrentMonthRejectedAds  int    `json:"current_month_rejected_ads"`
	YesterdayPublishedAds    int    `json:"yesterday_published_ads"`
	YesterdayRejectedAds     int    `json:"yesterday_rejected_ads"`
}

// AdOverview reúne os contadores da página principal.
type AdOverview struct {
	TotalAds                    int                `json:"total_ads"`
	TotalRejectedAds            int                `json:"total_rejected_ads"`
	YesterdayAds                int                `json:"yesterday_ads"`
	YesterdayRejectedAds        int                `json:"yesterday_rejected_ads"`
	CurrentMonthAds             int                `json:"current_month_ads"`
	CurrentMonthRejectedAds     int                `json:"current_month_rejected_ads"`
	Last30DaysAds               int                `json:"last_30_days_ads"`
	Last30DaysRejectedAds       int                `json:"last_30_days_rejected_ads"`
	TopRejectedAccountYesterday *AccountRejections `json:"top_rejected_account_yesterday,omitempty"`
	TotalSpend                  string             `json:"total_spend,omitempty"`
	RejectedSpend               string             `json:"rejected_spend,omitempty"`
}

type OverviewReport struct {
	FilterStatus
	GeneratedAt   time.Time   `json:"generated_at"`
	SnapshotID    string      `json:"snapshot_id"`
	Overall       AdOverview  `json:"overall"`
	Filtered      *AdOverview `json:"filtered,omitempty"`
	FilteredShare float64     `json:"filtered_share_percent"`
}

type GroupedReport struct {
	FilterStatus
	GeneratedAt           time.Time  `json:"generated_at"`
	SnapshotID            string     `json:"snapshot_id"`
	ByAccount             []GroupRow `json:"by_account"`
	ByDate                []GroupRow `json:"by_date"`
	ByDateAndError        []GroupRow `json:"by_date_and_error"`
	ByAccountAndDate      []GroupRow `json:"by_account_and_date"`
	ByAccountAndError     []GroupRow `json:"by_account_and_error"`
	ByError               []GroupRow `json:"by_error"`
	ByAccountDateAndError []GroupRow `json:"by_account_date_and_error"`
}

type TodayReport struct {
	FilterStatus
	GeneratedAt     time.Time           `json:"generated_at"`
	SnapshotID      string              `json:"snapshot_id"`
	Date            string              `json:"date"`
	PublishedAds    int                 `json:"published_ads"`
	RejectedAds     int                 `json:"rejected_ads"`
	RejectionRate   float64             `json:"rejection_rate_percent"`
	TopAccount      *AccountRejections  `json:"top_account,omitempty"`
	TopAccounts     []AccountRejections `json:"top_accounts"`
	RejectedByHour  []HourOfDayCount    `json:"rejected_by_hour,omitempty"`
	RejectedByError []ErrorTypeCount    `json:"rejected_by_error_type"`
}

type AccountHourly struct {
	AdAccountID string       `json:"ad_account_id"`
	Buckets     []HourBucket `json:"buckets"`
}

type HourlyReport struct {
	FilterStatus
	GeneratedAt       time.Time           `json:"generated_at"`
	SnapshotID        string              `json:"snapshot_id"`
	Hours             int                 `json:"hours"`
	LastHourRejected  int                 `json:"last_hour_rejected"`
	WindowRejected    int                 `json:"window_rejected"`
	PeakHourRejected  int                 `json:"peak_hour_rejected"`
	Buckets           []HourBucket        `json:"buckets"`
	Trend             []HourBucket        `json:"trend"`
	TopAccounts       []AccountRejections `json:"top_accounts"`
	TopAccountsHourly []AccountHourly     `json:"top_accounts_hourly"`
	TopErrorTypes     []ErrorTypeCount    `json:"top_error_types"`
}

type RecordsPage struct {
	FilterStatus
	GeneratedAt time.Time `json:"generated_at"`
	SnapshotID  string    `json:"snapshot_id"`
	Total       int       `json:"total"`
	Limit       int       `json:"limit"`
	Offset      int       `json:"offset"`
	Records     []AdEvent `json:"records"`
}

type SummaryReport struct {
	FilterStatus
	GeneratedAt time.Time    `json:"generated_at"`
	SnapshotID  string       `json:"snapshot_id"`
	Rows        []SummaryRow `json:"rows"`
}
