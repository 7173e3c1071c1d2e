package moderation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

// referenceNow é o "agora" fixo usado pelos testes: domingo, 15/06/2025 10:30 UTC.
var referenceNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func at(year int, month time.Month, day, hour, minute int) *domain.Moment {
	return domain.NewTimestamp(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

func ago(d time.Duration) *domain.Moment {
	return domain.NewTimestamp(referenceNow.Add(-d))
}

type rowOption func(*domain.RawRow)

func withBUID(buid string) rowOption {
	return func(r *domain.RawRow) { r.BusinessUnitID = strPtr(buid) }
}

func withCreated(m *domain.Moment) rowOption {
	return func(r *domain.RawRow) { r.CreatedAt = m }
}

func withChanged(m *domain.Moment) rowOption {
	return func(r *domain.RawRow) { r.StatusChangeAt = m }
}

func withError(errorType, description string) rowOption {
	return func(r *domain.RawRow) {
		r.ErrorType = strPtr(errorType)
		r.ErrorDescription = strPtr(description)
	}
}

func withSubStatus(subStatus string) rowOption {
	return func(r *domain.RawRow) { r.SubStatus = strPtr(subStatus) }
}

func withSpend(value string) rowOption {
	return func(r *domain.RawRow) { r.Spend = decimalPtr(value) }
}

func row(adID, accountID string, status domain.AdStatus, opts ...rowOption) domain.RawRow {
	r := domain.RawRow{
		AdID:        adID,
		AdAccountID: accountID,
		Status:      status,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func timestampDataset(rows ...domain.RawRow) *Dataset {
	return BuildDataset(rows, DatasetOptions{Precision: PrecisionTimestamp, Location: time.UTC})
}

func dateDataset(rows ...domain.RawRow) *Dataset {
	return BuildDataset(rows, DatasetOptions{Precision: PrecisionDate, Location: time.UTC})
}

func adIDs(ds *Dataset) []string {
	ids := make([]string, 0, ds.Len())
	for _, r := range ds.Records() {
		ids = append(ids, r.AdID)
	}
	return ids
}

// moderationRows é um dataset variado usado nos testes de filtro e agregação.
func moderationRows() []domain.RawRow {
	return []domain.RawRow{
		row("ad-1", "act_1", domain.AdStatusDisapproved, withBUID("bu-1"),
			withCreated(at(2025, 6, 14, 8, 0)), withChanged(at(2025, 6, 14, 9, 0)),
			withSubStatus("DISAPPROVED"), withError("POLICY", "Conteúdo proibido")),
		row("ad-2", "act_1", domain.AdStatusApproved, withBUID("bu-1"),
			withCreated(at(2025, 6, 15, 7, 0)), withChanged(at(2025, 6, 15, 7, 30)),
			withSubStatus("ACTIVE")),
		row("ad-3", "act_2", domain.AdStatusDisapproved, withBUID("bu-2"),
			withCreated(at(2025, 6, 1, 12, 0)), withChanged(at(2025, 6, 15, 9, 45)),
			withSubStatus("DISAPPROVED"), withError("CIRCUMVENTING", "Sistemas")),
		row("ad-4", "act_2", domain.AdStatusDisapproved,
			withCreated(at(2025, 5, 20, 12, 0)), withChanged(at(2025, 5, 25, 12, 0)),
			withSubStatus("DISAPPROVED"), withError("POLICY", "Conteúdo proibido")),
		row("ad-5", "act_3", domain.AdStatusApproved, withBUID("bu-3"),
			withCreated(at(2025, 4, 10, 12, 0)),
			withSubStatus("PAUSED")),
		row("ad-6", "act_1", domain.AdStatusDisapproved, withBUID("bu-1"),
			withCreated(at(2025, 6, 14, 20, 0)), withChanged(at(2025, 6, 14, 22, 0)),
			withSubStatus("WITH_ISSUES")),
	}
}
