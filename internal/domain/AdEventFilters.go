package domain

import (
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DateRange é um intervalo de dias de calendário, inclusivo nas duas pontas.
// Só ano, mês e dia de Start e End são considerados.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func dayNumber(t time.Time) int {
	year, month, day := t.Date()
	return year*10000 + int(month)*100 + day
}

// ContainsDay compara o dia de calendário de t, lido no fuso loc, com o intervalo.
func (r DateRange) ContainsDay(t time.Time, loc *time.Location) bool {
	if loc != nil {
		t = t.In(loc)
	}
	day := dayNumber(t)
	return day >= dayNumber(r.Start) && day <= dayNumber(r.End)
}

// AdEventFilters é o predicado aplicado ao dataset. Campos vazios não restringem nada.
type AdEventFilters struct {
	AdAccountID       string     `json:"ad_account_id,omitempty"`
	CreatedAtRange    *DateRange `json:"created_at_range,omitempty"`
	StatusChangeRange *DateRange `json:"status_change_range,omitempty"`
	StatusIn          []AdStatus `json:"status_in,omitempty"`
	SubStatusIn       []string   `json:"sub_status_in,omitempty"`
	ErrorTypeIn       []string   `json:"error_type_in,omitempty"`
}

func (f AdEventFilters) IsZero() bool {
	return f.AdAccountID == "" &&
		f.CreatedAtRange == nil &&
		f.StatusChangeRange == nil &&
		len(f.StatusIn) == 0 &&
		len(f.SubStatusIn) == 0 &&
		len(f.ErrorTypeIn) == 0
}

// Key é a codificação canônica do predicado, usada como chave de memoização.
// Conjuntos são ordenados e as datas reduzidas ao dia.
func (f AdEventFilters) Key() string {
	type rangeKey struct {
		Start string `json:"s"`
		End   string `json:"e"`
	}
	toRangeKey := func(r *DateRange) *rangeKey {
		if r == nil {
			return nil
		}
		return &rangeKey{Start: r.Start.Format(time.DateOnly), End: r.End.Format(time.DateOnly)}
	}

	statuses := make([]string, 0, len(f.StatusIn))
	for _, s := range f.StatusIn {
		statuses = append(statuses, string(s))
	}

	canonical := struct {
		AdAccountID string    `json:"a,omitempty"`
		Created     *rangeKey `json:"c,omitempty"`
		Changed     *rangeKey `json:"u,omitempty"`
		Status      []string  `json:"s,omitempty"`
		SubStatus   []string  `json:"ss,omitempty"`
		ErrorType   []string  `json:"et,omitempty"`
	}{
		AdAccountID: f.AdAccountID,
		Created:     toRangeKey(f.CreatedAtRange),
		Changed:     toRangeKey(f.StatusChangeRange),
		Status:      sortedSet(statuses),
		SubStatus:   sortedSet(f.SubStatusIn),
		ErrorType:   sortedSet(f.ErrorTypeIn),
	}

	encoded, err := json.Marshal(canonical)
	if err != nil {
		// structs de strings não falham na serialização
		return ""
	}
	return string(encoded)
}

func sortedSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// FilterOptions lista os valores disponíveis para montar filtros.
type FilterOptions struct {
	Statuses          []string   `json:"statuses"`
	SubStatuses       []string   `json:"sub_statuses"`
	ErrorTypes        []string   `json:"error_types"`
	AdAccountIDs      []string   `json:"ad_account_ids"`
	CreatedAtRange    *DateRange `json:"created_at_range,omitempty"`
	StatusChangeRange *DateRange `json:"status_change_range,omitempty"`
}

// FilterStatus acompanha cada resposta filtrada.
type FilterStatus struct {
	FiltersApplied  bool     `json:"filters_applied"`
	AccountNotFound bool     `json:"account_not_found"`
	Message         string   `json:"message,omitempty"`
	KnownAccounts   []string `json:"known_accounts,omitempty"`
}
