package moderation

import (
	"fmt"

	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

// maxKnownAccounts limita quantas contas são sugeridas quando a conta filtrada não existe.
const maxKnownAccounts = 10

type FilterResult struct {
	Dataset         *Dataset
	AccountNotFound bool
	Message         string
	KnownAccounts   []string
}

// Status resume o resultado para as respostas da API.
func (r FilterResult) Status(filters domain.AdEventFilters) domain.FilterStatus {
	return domain.FilterStatus{
		FiltersApplied:  !filters.IsZero(),
		AccountNotFound: r.AccountNotFound,
		Message:         r.Message,
		KnownAccounts:   r.KnownAccounts,
	}
}

type recordPredicate func(record *domain.AdEvent) bool

// ApplyFilters aplica o predicado em conjunção. Critérios vazios são ignorados e a
// avaliação para assim que o resultado intermediário fica vazio.
//
// Uma conta que não existe no dataset recebido gera resultado vazio com
// AccountNotFound. Zero linhas por causa dos outros critérios é só um resultado vazio.
func ApplyFilters(ds *Dataset, filters domain.AdEventFilters) FilterResult {
	if filters.IsZero() {
		return FilterResult{Dataset: ds}
	}

	if filters.AdAccountID != "" && !ds.hasAccount(filters.AdAccountID) {
		known := ds.AccountIDs()
		if len(known) > maxKnownAccounts {
			known = known[:maxKnownAccounts]
		}

		return FilterResult{
			Dataset:         ds.derive([]domain.AdEvent{}),
			AccountNotFound: true,
			Message:         fmt.Sprintf("Ad Account ID '%s' does not exist", filters.AdAccountID),
			KnownAccounts:   known,
		}
	}

	records := ds.records
	for _, keep := range predicatesFor(filters, ds) {
		if len(records) == 0 {
			break
		}
		records = selectRecords(records, keep)
	}

	return FilterResult{Dataset: ds.derive(records)}
}

func predicatesFor(filters domain.AdEventFilters, ds *Dataset) []recordPredicate {
	predicates := make([]recordPredicate, 0, 6)

	if filters.AdAccountID != "" {
		accountID := filters.AdAccountID
		predicates = append(predicates, func(r *domain.AdEvent) bool {
			return r.AdAccountID == accountID
		})
	}

	if filters.CreatedAtRange != nil {
		predicates = append(predicates, dayRangePredicate(*filters.CreatedAtRange, domain.DateFieldCreatedAt, ds))
	}

	if filters.StatusChangeRange != nil {
		predicates = append(predicates, dayRangePredicate(*filters.StatusChangeRange, domain.DateFieldStatusChangeAt, ds))
	}

	if len(filters.StatusIn) > 0 {
		statuses := make(map[domain.AdStatus]struct{}, len(filters.StatusIn))
		for _, s := range filters.StatusIn {
			statuses[s] = struct{}{}
		}
		predicates = append(predicates, func(r *domain.AdEvent) bool {
			_, ok := statuses[r.Status]
			return ok
		})
	}

	if len(filters.SubStatusIn) > 0 {
		predicates = append(predicates, nullableInSet(filters.SubStatusIn, func(r *domain.AdEvent) *string { return r.SubStatus }))
	}

	if len(filters.ErrorTypeIn) > 0 {
		predicates = append(predicates, nullableInSet(filters.ErrorTypeIn, func(r *domain.AdEvent) *string { return r.ErrorType }))
	}

	return predicates
}

// dayRangePredicate compara por dia de calendário no fuso do dataset. Datas nulas não passam.
func dayRangePredicate(r domain.DateRange, field domain.DateField, ds *Dataset) recordPredicate {
	loc := ds.location
	return func(record *domain.AdEvent) bool {
		t := field.Of(record)
		if t == nil {
			return false
		}
		return r.ContainsDay(*t, loc)
	}
}

func nullableInSet(values []string, get func(*domain.AdEvent) *string) recordPredicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(r *domain.AdEvent) bool {
		v := get(r)
		if v == nil {
			return false
		}
		_, ok := set[*v]
		return ok
	}
}

// selectRecords sempre aloca um novo slice, o dataset de origem não é tocado.
func selectRecords(records []domain.AdEvent, keep recordPredicate) []domain.AdEvent {
	out := make([]domain.AdEvent, 0, len(records))
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
