package moderation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/pkg/utils"
)

// statusMatcher aceita qualquer status quando nenhum é informado.
func statusMatcher(statuses []domain.AdStatus) func(domain.AdStatus) bool {
	if len(statuses) == 0 {
		return func(domain.AdStatus) bool { return true }
	}
	return func(s domain.AdStatus) bool {
		for _, want := range statuses {
			if s == want {
				return true
			}
		}
		return false
	}
}

// Count conta os registros, opcionalmente restritos a um status.
func Count(ds *Dataset, status ...domain.AdStatus) int {
	if len(status) == 0 {
		return len(ds.records)
	}

	match := statusMatcher(status)
	n := 0
	for i := range ds.records {
		if match(ds.records[i].Status) {
			n++
		}
	}
	return n
}

// SumSpend soma o gasto. Valores nulos, ou a coluna ausente, contam como zero.
func SumSpend(ds *Dataset, status ...domain.AdStatus) decimal.Decimal {
	total := decimal.Zero
	if !ds.hasSpend {
		return total
	}

	match := statusMatcher(status)
	for i := range ds.records {
		r := &ds.records[i]
		if r.Spend == nil || !match(r.Status) {
			continue
		}
		total = total.Add(*r.Spend)
	}
	return total
}

// WindowedCount conta registros cuja data em field cai na janela. Os limites de dia
// vêm de now lido no fuso do dataset. Lifetime conta também datas nulas.
func WindowedCount(ds *Dataset, field domain.DateField, window domain.Window, now time.Time, status ...domain.AdStatus) int {
	match := statusMatcher(status)
	now = now.In(ds.location)

	n := 0
	for i := range ds.records {
		r := &ds.records[i]
		if !match(r.Status) {
			continue
		}
		if window == domain.WindowLifetime {
			n++
			continue
		}
		if t := field.Of(r); t != nil && window.Contains(*t, now) {
			n++
		}
	}
	return n
}

// WithinWindow devolve o sub-dataset cuja data em field cai na janela.
func WithinWindow(ds *Dataset, field domain.DateField, window domain.Window, now time.Time) *Dataset {
	if window == domain.WindowLifetime {
		return ds
	}

	now = now.In(ds.location)
	return ds.derive(selectRecords(ds.records, func(r *domain.AdEvent) bool {
		t := field.Of(r)
		return t != nil && window.Contains(*t, now)
	}))
}

// Between devolve o sub-dataset com statusChangeAt em [from, to].
func Between(ds *Dataset, from, to time.Time) *Dataset {
	return ds.derive(selectRecords(ds.records, func(r *domain.AdEvent) bool {
		return r.StatusChangeAt != nil && !r.StatusChangeAt.Before(from) && !r.StatusChangeAt.After(to)
	}))
}

func validateGroupKeys(keys []domain.GroupField) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: at least one key is required", ErrInvalidGroupKeys)
	}

	seen := make(map[domain.GroupField]struct{}, len(keys))
	for _, key := range keys {
		switch key {
		case domain.GroupByAdAccountID, domain.GroupByStatusChangeAt, domain.GroupByErrorType:
		default:
			return fmt.Errorf("%w: unknown key %q", ErrInvalidGroupKeys, key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: repeated key %q", ErrInvalidGroupKeys, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// GroupCount agrupa pelas chaves e conta. Registros com alguma chave nula ficam de fora.
// Quando statusChangeAt é chave, o resultado vem em ordem decrescente de data;
// nos demais casos, na ordem em que o grupo aparece.
func GroupCount(ds *Dataset, keys []domain.GroupField, status ...domain.AdStatus) ([]domain.GroupRow, error) {
	if err := validateGroupKeys(keys); err != nil {
		return nil, err
	}

	match := statusMatcher(status)
	index := make(map[string]int)
	rows := make([]domain.GroupRow, 0)
	byDate := false
	for _, key := range keys {
		if key == domain.GroupByStatusChangeAt {
			byDate = true
		}
	}

	var sb strings.Builder
	for i := range ds.records {
		r := &ds.records[i]
		if !match(r.Status) {
			continue
		}

		sb.Reset()
		row := domain.GroupRow{}
		complete := true
		for _, key := range keys {
			part, ok := groupKeyPart(r, key, &row)
			if !ok {
				complete = false
				break
			}
			sb.WriteString(part)
			sb.WriteByte(0x1f)
		}
		if !complete {
			continue
		}

		key := sb.String()
		if pos, ok := index[key]; ok {
			rows[pos].Count++
			continue
		}
		row.Count = 1
		index[key] = len(rows)
		rows = append(rows, row)
	}

	if byDate {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].StatusChangeAt.After(*rows[j].StatusChangeAt)
		})
	}

	return rows, nil
}

// groupKeyPart preenche a coluna da chave em row e devolve seu valor textual.
// Valor nulo devolve false.
func groupKeyPart(r *domain.AdEvent, key domain.GroupField, row *domain.GroupRow) (string, bool) {
	switch key {
	case domain.GroupByAdAccountID:
		row.AdAccountID = r.AdAccountID
		return r.AdAccountID, true
	case domain.GroupByStatusChangeAt:
		if r.StatusChangeAt == nil {
			return "", false
		}
		row.StatusChangeAt = r.StatusChangeAt
		return strconv.FormatInt(r.StatusChangeAt.UnixNano(), 10), true
	case domain.GroupByErrorType:
		if r.ErrorType == nil {
			return "", false
		}
		row.ErrorType = *r.ErrorType
		return *r.ErrorType, true
	default:
		return "", false
	}
}

// TopKByRejections ordena as contas por anúncios reprovados na janela de statusChangeAt.
func TopKByRejections(ds *Dataset, window domain.Window, k int, now time.Time) []domain.AccountRejections {
	return topAccounts(WithinWindow(ds, domain.DateFieldStatusChangeAt, window, now), k)
}

// TopKByRejectionsSince faz o mesmo ranking para statusChangeAt em [since, now].
func TopKByRejectionsSince(ds *Dataset, since, now time.Time, k int) []domain.AccountRejections {
	return topAccounts(Between(ds, since, now), k)
}

// topAccounts agrupa os reprovados por conta com o primeiro buid não nulo,
// ordena de forma estável por contagem decrescente e corta em k.
func topAccounts(ds *Dataset, k int) []domain.AccountRejections {
	if k <= 0 {
		return []domain.AccountRejections{}
	}

	index := make(map[string]int)
	ranking := make([]domain.AccountRejections, 0)
	for i := range ds.records {
		r := &ds.records[i]
		if r.Status != domain.AdStatusDisapproved {
			continue
		}

		pos, ok := index[r.AdAccountID]
		if !ok {
			pos = len(ranking)
			index[r.AdAccountID] = pos
			ranking = append(ranking, domain.AccountRejections{AdAccountID: r.AdAccountID})
		}
		ranking[pos].RejectedCount++
		if ranking[pos].BusinessUnitID == nil && r.BusinessUnitID != nil {
			ranking[pos].BusinessUnitID = r.BusinessUnitID
		}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].RejectedCount > ranking[j].RejectedCount
	})

	if len(ranking) > k {
		ranking = ranking[:k]
	}
	return ranking
}

// HourlyBucketCount conta eventos em faixas de uma hora a partir de now:
// a faixa i é [now-(i+1)h, now-i·h), a mais recente primeiro. Sem status informado
// conta os reprovados. Exige dataset de timestamp.
func HourlyBucketCount(ds *Dataset, hoursBack int, now time.Time, status ...domain.AdStatus) ([]domain.HourBucket, error) {
	if ds.precision != PrecisionTimestamp {
		return nil, ErrHourlyPrecision
	}
	if hoursBack <= 0 {
		return []domain.HourBucket{}, nil
	}
	if len(status) == 0 {
		status = []domain.AdStatus{domain.AdStatusDisapproved}
	}

	now = now.UTC()
	buckets := make([]domain.HourBucket, hoursBack)
	for i := range buckets {
		buckets[i] = domain.HourBucket{
			Start: now.Add(-time.Duration(i+1) * time.Hour),
			End:   now.Add(-time.Duration(i) * time.Hour),
		}
	}

	match := statusMatcher(status)
	for i := range ds.records {
		r := &ds.records[i]
		if r.StatusChangeAt == nil || !match(r.Status) {
			continue
		}

		age := now.Sub(*r.StatusChangeAt)
		if age <= 0 {
			continue
		}
		// age em (i·h, (i+1)·h] cai na faixa i
		idx := int((age - 1) / time.Hour)
		if idx < hoursBack {
			buckets[idx].Count++
		}
	}

	return buckets, nil
}

// HourlyTrend conta por hora cheia de relógio, da mais antiga para a mais recente,
// incluindo a hora corrente.
func HourlyTrend(ds *Dataset, hours int, now time.Time, status ...domain.AdStatus) ([]domain.HourBucket, error) {
	if ds.precision != PrecisionTimestamp {
		return nil, ErrHourlyPrecision
	}
	if hours <= 0 {
		return []domain.HourBucket{}, nil
	}
	if len(status) == 0 {
		status = []domain.AdStatus{domain.AdStatusDisapproved}
	}

	current := now.UTC().Truncate(time.Hour)
	first := current.Add(-time.Duration(hours-1) * time.Hour)
	trend := make([]domain.HourBucket, hours)
	for i := range trend {
		start := first.Add(time.Duration(i) * time.Hour)
		trend[i] = domain.HourBucket{Start: start, End: start.Add(time.Hour)}
	}

	match := statusMatcher(status)
	for i := range ds.records {
		r := &ds.records[i]
		if r.StatusChangeAt == nil || !match(r.Status) {
			continue
		}
		if r.StatusChangeAt.Before(first) {
			continue
		}
		idx := int(r.StatusChangeAt.Sub(first) / time.Hour)
		if idx < hours {
			trend[idx].Count++
		}
	}

	return trend, nil
}

// CountByHourOfDay conta por hora do dia (no fuso do dataset) os eventos da janela.
func CountByHourOfDay(ds *Dataset, window domain.Window, now time.Time, status ...domain.AdStatus) ([]domain.HourOfDayCount, error) {
	if ds.precision != PrecisionTimestamp {
		return nil, ErrHourlyPrecision
	}

	match := statusMatcher(status)
	var perHour [24]int
	for _, r := range WithinWindow(ds, domain.DateFieldStatusChangeAt, window, now).records {
		if r.StatusChangeAt == nil || !match(r.Status) {
			continue
		}
		perHour[r.StatusChangeAt.In(ds.location).Hour()]++
	}

	counts := make([]domain.HourOfDayCount, 0, 24)
	for hour, count := range perHour {
		if count > 0 {
			counts = append(counts, domain.HourOfDayCount{Hour: hour, Count: count})
		}
	}
	return counts, nil
}

// CountByErrorType conta por tipo de erro em ordem decrescente. Tipos nulos ficam de fora.
func CountByErrorType(ds *Dataset, status ...domain.AdStatus) []domain.ErrorTypeCount {
	match := statusMatcher(status)
	index := make(map[string]int)
	counts := make([]domain.ErrorTypeCount, 0)

	for i := range ds.records {
		r := &ds.records[i]
		if r.ErrorType == nil || !match(r.Status) {
			continue
		}
		pos, ok := index[*r.ErrorType]
		if !ok {
			pos = len(counts)
			index[*r.ErrorType] = pos
			counts = append(counts, domain.ErrorTypeCount{ErrorType: *r.ErrorType})
		}
		counts[pos].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// PeakBucket devolve a maior contagem em uma única faixa.
func PeakBucket(buckets []domain.HourBucket) int {
	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}
	return peak
}

// RejectionRate devolve o percentual de reprovação com uma casa decimal.
func RejectionRate(published, rejected int) float64 {
	if published <= 0 {
		return 0
	}
	return utils.RoundWithOneDecimalPlace(float64(rejected) / float64(published) * 100)
}
