package moderation

import (
	"time"

	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

// Precision define como createdAt e statusChangeAt são representados no dataset.
type Precision int

const (
	// PrecisionDate guarda datas de calendário (meia-noite no fuso do dataset).
	PrecisionDate Precision = iota
	// PrecisionTimestamp guarda instantes em UTC.
	PrecisionTimestamp
)

func (p Precision) String() string {
	if p == PrecisionTimestamp {
		return "timestamp"
	}
	return "date"
}

type DatasetOptions struct {
	Precision Precision
	Location  *time.Location
	HasSpend  bool
}

// Dataset é a tabela imutável de eventos de moderação. Filtros e agregações
// nunca alteram um Dataset, sempre produzem outro.
type Dataset struct {
	records        []domain.AdEvent
	precision      Precision
	location       *time.Location
	hasSpend       bool
	skippedRows    int
	duplicateAdIDs int
}

// BuildDataset monta o dataset a partir das linhas do warehouse. Nunca falha:
// linhas sem ad_id ou ad_account_id são descartadas e contadas, e para ad_id
// repetido vale a primeira linha.
//
// Um dataset de timestamp só é produzido se todo status_change_date vier com
// hora. Caso contrário a precisão cai para data.
func BuildDataset(rows []domain.RawRow, opts DatasetOptions) *Dataset {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	precision := opts.Precision
	if precision == PrecisionTimestamp {
		for i := range rows {
			if m := rows[i].StatusChangeAt; m != nil && !m.Time.IsZero() && m.DateOnly {
				precision = PrecisionDate
				break
			}
		}
	}

	ds := &Dataset{
		records:   make([]domain.AdEvent, 0, len(rows)),
		precision: precision,
		location:  loc,
		hasSpend:  opts.HasSpend,
	}

	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.AdID == "" || row.AdAccountID == "" {
			ds.skippedRows++
			continue
		}
		if _, dup := seen[row.AdID]; dup {
			ds.duplicateAdIDs++
			continue
		}
		seen[row.AdID] = struct{}{}

		status := row.Status
		if !status.Valid() {
			status = domain.StatusFromEffective(string(status))
		}

		ds.records = append(ds.records, domain.AdEvent{
			BusinessUnitID:   row.BusinessUnitID,
			AdAccountID:      row.AdAccountID,
			AdID:             row.AdID,
			Status:           status,
			SubStatus:        row.SubStatus,
			CreatedAt:        normalizeMoment(row.CreatedAt, precision, loc),
			StatusChangeAt:   normalizeMoment(row.StatusChangeAt, precision, loc),
			ErrorType:        row.ErrorType,
			ErrorDescription: row.ErrorDescription,
			Spend:            row.Spend,
			AdLink:           domain.BuildAdLink(row.AdAccountID, row.AdID),
		})
	}

	return ds
}

// normalizeMoment converte o valor bruto para a representação do dataset.
// Um valor só de data nunca muda de dia, independente do fuso.
func normalizeMoment(m *domain.Moment, precision Precision, loc *time.Location) *time.Time {
	if m == nil || m.Time.IsZero() {
		return nil
	}

	var normalized time.Time
	switch {
	case m.DateOnly:
		year, month, day := m.Time.Date()
		normalized = time.Date(year, month, day, 0, 0, 0, 0, loc)
	case precision == PrecisionTimestamp:
		normalized = m.Time.UTC()
	default:
		normalized = domain.StartOfDay(m.Time.In(loc))
	}

	return &normalized
}

func toDate(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.StartOfDay(t.In(loc))
	return &d
}

// DateView devolve a visão por data de um dataset de timestamp.
// Em um dataset de data devolve o próprio dataset.
func (ds *Dataset) DateView() *Dataset {
	if ds.precision == PrecisionDate {
		return ds
	}

	records := make([]domain.AdEvent, len(ds.records))
	for i, record := range ds.records {
		record.CreatedAt = toDate(record.CreatedAt, ds.location)
		record.StatusChangeAt = toDate(record.StatusChangeAt, ds.location)
		records[i] = record
	}

	view := ds.derive(records)
	view.precision = PrecisionDate
	return view
}

// derive cria um dataset com os mesmos metadados e outro conjunto de registros.
func (ds *Dataset) derive(records []domain.AdEvent) *Dataset {
	return &Dataset{
		records:        records,
		precision:      ds.precision,
		location:       ds.location,
		hasSpend:       ds.hasSpend,
		skippedRows:    ds.skippedRows,
		duplicateAdIDs: ds.duplicateAdIDs,
	}
}

func (ds *Dataset) Len() int {
	return len(ds.records)
}

// Records devolve uma cópia dos registros.
func (ds *Dataset) Records() []domain.AdEvent {
	out := make([]domain.AdEvent, len(ds.records))
	copy(out, ds.records)
	return out
}

func (ds *Dataset) Precision() Precision {
	return ds.precision
}

func (ds *Dataset) Location() *time.Location {
	return ds.location
}

func (ds *Dataset) HasSpend() bool {
	return ds.hasSpend
}

func (ds *Dataset) SkippedRows() int {
	return ds.skippedRows
}

func (ds *Dataset) DuplicateAdIDs() int {
	return ds.duplicateAdIDs
}

// AccountIDs lista as contas distintas na ordem em que aparecem.
func (ds *Dataset) AccountIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for i := range ds.records {
		id := ds.records[i].AdAccountID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (ds *Dataset) hasAccount(accountID string) bool {
	for i := range ds.records {
		if ds.records[i].AdAccountID == accountID {
			return true
		}
	}
	return false
}

// partitionByAccount separa o dataset por conta em uma única passada,
// preservando a ordem dos registros dentro de cada conta.
func (ds *Dataset) partitionByAccount() map[string]*Dataset {
	grouped := make(map[string][]domain.AdEvent)
	for _, record := range ds.records {
		grouped[record.AdAccountID] = append(grouped[record.AdAccountID], record)
	}

	parts := make(map[string]*Dataset, len(grouped))
	for accountID, records := range grouped {
		parts[accountID] = ds.derive(records)
	}
	return parts
}

// Table serializa o dataset em linhas de texto para exportação, mantendo o link e
// todas as colunas derivadas.
func (ds *Dataset) Table() domain.Table {
	header := []string{
		"buid", "ad_account_id", "ad_id", "ad_status", "effective_status",
		"created_at", "status_change_date", "error_type", "error_description",
	}
	if ds.hasSpend {
		header = append(header, "spend")
	}
	header = append(header, "ad_link")

	rows := make([][]string, 0, len(ds.records))
	for _, r := range ds.records {
		row := []string{
			stringOrEmpty(r.BusinessUnitID),
			r.AdAccountID,
			r.AdID,
			string(r.Status),
			stringOrEmpty(r.SubStatus),
			ds.formatTime(r.CreatedAt),
			ds.formatTime(r.StatusChangeAt),
			stringOrEmpty(r.ErrorType),
			stringOrEmpty(r.ErrorDescription),
		}
		if ds.hasSpend {
			spend := ""
			if r.Spend != nil {
				spend = r.Spend.StringFixed(2)
			}
			row = append(row, spend)
		}
		row = append(row, r.AdLink)
		rows = append(rows, row)
	}

	return domain.Table{Header: header, Rows: rows}
}

func (ds *Dataset) formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	if ds.precision == PrecisionDate {
		return t.Format(time.DateOnly)
	}
	return t.UTC().Format(time.RFC3339)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
