package moderation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
	"github.com/vfg2006/ad-review-dashboard/pkg/metrics"
	"github.com/vfg2006/ad-review-dashboard/pkg/utils"
)

const (
	SourceWarehouse = "warehouse"
	SourceCache     = "cache"

	// Limites das páginas, como no painel original
	todayTopAccounts   = 10
	hourlyTopAccounts  = 5
	hourlyDrillDown    = 3
	hourlyTopErrors    = 3
	maxHourlyWindow    = 48
	defaultRecordLimit = 100
	maxRecordLimit     = 5000
)

// Snapshot é o conjunto imutável servido entre duas recargas.
type Snapshot struct {
	ID        string
	FetchedAt time.Time
	Source    string
	// Events mantém a precisão lida do warehouse, Daily é sempre por data.
	Events *Dataset
	Daily  *Dataset
}

type Service struct {
	fetcher   AdEventFetcher
	cache     SnapshotCache
	metrics   *metrics.Metrics
	options   DatasetOptions
	clock     func() time.Time
	current   atomic.Pointer[Snapshot]
	refreshMu sync.Mutex
	summaries Memo[[]domain.SummaryRow]
}

// NewService cria o serviço de relatórios. cache pode ser nil.
func NewService(cfg *config.Config, fetcher AdEventFetcher, cache SnapshotCache, m *metrics.Metrics) *Service {
	precision := PrecisionTimestamp
	if cfg.Database.Precision == "date" {
		precision = PrecisionDate
	}

	return &Service{
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
		options: DatasetOptions{
			Precision: precision,
			Location:  cfg.App.ReportLocation,
		},
		clock: time.Now,
	}
}

// WithClock troca o relógio usado para capturar "agora" em cada renderização.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Refresh carrega um novo snapshot. Sem force, tenta antes o cache compartilhado.
// Recargas são serializadas e uma falha mantém o snapshot anterior publicado.
func (s *Service) Refresh(ctx context.Context, force bool) (*Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	logger := log.ForContext(ctx)
	startedAt := time.Now()

	source := SourceWarehouse
	var batch *domain.AdEventBatch

	if !force && s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err != nil {
			logger.WithError(err).Warn("reporting: cache do snapshot indisponível, consultando o warehouse")
		} else if cached != nil {
			batch = cached
			source = SourceCache
		}
	}

	if batch == nil {
		fetched, err := s.fetcher.FetchAdEvents(ctx)
		if err != nil {
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				err = NewFetchError(FetchUnavailable, err, "")
			}
			s.metrics.RecordRefresh(source, "error", time.Since(startedAt))
			logger.WithError(err).Error("reporting: erro ao recarregar o dataset, mantendo o snapshot anterior")
			return nil, err
		}
		batch = fetched

		if s.cache != nil {
			if err := s.cache.Store(ctx, batch); err != nil {
				logger.WithError(err).Warn("reporting: erro ao gravar o snapshot no cache")
			}
		}
	}

	snapshot, err := s.buildSnapshot(batch, source)
	if err != nil {
		s.metrics.RecordRefresh(source, "error", time.Since(startedAt))
		return nil, err
	}

	s.current.Store(snapshot)
	s.summaries.Reset()

	s.metrics.RecordRefresh(source, "success", time.Since(startedAt))
	s.metrics.SetSnapshot(snapshot.Events.Len(), snapshot.Events.SkippedRows(), snapshot.Events.DuplicateAdIDs(), snapshot.FetchedAt)

	logger.WithFields(log.Fields{
		"snapshot_id": snapshot.ID,
		"source":      source,
		"rows":        snapshot.Events.Len(),
		"skipped":     snapshot.Events.SkippedRows(),
		"duplicates":  snapshot.Events.DuplicateAdIDs(),
		"precision":   snapshot.Events.Precision().String(),
		"duration_ms": time.Since(startedAt).Milliseconds(),
	}).Info("reporting: dataset recarregado")

	if snapshot.Events.DuplicateAdIDs() > 0 {
		logger.Warnf("reporting: %d ad ids repetidos ignorados, a deduplicação do warehouse falhou", snapshot.Events.DuplicateAdIDs())
	}

	return snapshot, nil
}

func (s *Service) buildSnapshot(batch *domain.AdEventBatch, source string) (*Snapshot, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	opts := s.options
	opts.HasSpend = batch.HasSpend
	events := BuildDataset(batch.Rows, opts)

	fetchedAt := batch.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = s.clock()
	}

	return &Snapshot{
		ID:        id,
		FetchedAt: fetchedAt,
		Source:    source,
		Events:    events,
		Daily:     events.DateView(),
	}, nil
}

// Snapshot devolve o snapshot publicado ou ErrNoDataset.
func (s *Service) Snapshot() (*Snapshot, error) {
	snapshot := s.current.Load()
	if snapshot == nil {
		return nil, ErrNoDataset
	}
	return snapshot, nil
}

// ensureSnapshot tenta uma carga quando nada foi publicado ainda.
func (s *Service) ensureSnapshot(ctx context.Context) (*Snapshot, error) {
	if snapshot := s.current.Load(); snapshot != nil {
		return snapshot, nil
	}

	snapshot, err := s.Refresh(ctx, false)
	if err != nil {
		return nil, errors.Join(ErrNoDataset, err)
	}
	return snapshot, nil
}

func overviewOf(ds *Dataset, now time.Time) domain.AdOverview {
	overview := domain.AdOverview{
		TotalAds:                Count(ds),
		TotalRejectedAds:        Count(ds, domain.AdStatusDisapproved),
		YesterdayAds:            WindowedCount(ds, domain.DateFieldCreatedAt, domain.WindowYesterday, now),
		YesterdayRejectedAds:    WindowedCount(ds, domain.DateFieldStatusChangeAt, domain.WindowYesterday, now, domain.AdStatusDisapproved),
		CurrentMonthAds:         WindowedCount(ds, domain.DateFieldCreatedAt, domain.WindowCurrentMonthToDate, now),
		CurrentMonthRejectedAds: WindowedCount(ds, domain.DateFieldStatusChangeAt, domain.WindowCurrentMonthToDate, now, domain.AdStatusDisapproved),
		Last30DaysAds:           WindowedCount(ds, domain.DateFieldCreatedAt, domain.WindowLast30Days, now),
		Last30DaysRejectedAds:   WindowedCount(ds, domain.DateFieldStatusChangeAt, domain.WindowLast30Days, now, domain.AdStatusDisapproved),
	}

	if top := TopKByRejections(ds, domain.WindowYesterday, 1, now); len(top) > 0 {
		overview.TopRejectedAccountYesterday = &top[0]
	}

	if ds.HasSpend() {
		overview.TotalSpend = SumSpend(ds).StringFixed(2)
		overview.RejectedSpend = SumSpend(ds, domain.AdStatusDisapproved).StringFixed(2)
	}

	return overview
}

func (s *Service) Overview(ctx context.Context, filters domain.AdEventFilters) (*domain.OverviewReport, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	all := snapshot.Daily
	filtered := ApplyFilters(all, filters)

	report := &domain.OverviewReport{
		FilterStatus: filtered.Status(filters),
		GeneratedAt:  now,
		SnapshotID:   snapshot.ID,
		Overall:      overviewOf(all, now),
	}

	if !filters.IsZero() {
		filteredOverview := overviewOf(filtered.Dataset, now)
		report.Filtered = &filteredOverview
		report.FilteredShare = utils.Percentage(filtered.Dataset.Len(), all.Len())
	}

	return report, nil
}

func (s *Service) Grouped(ctx context.Context, filters domain.AdEventFilters) (*domain.GroupedReport, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	filtered := ApplyFilters(snapshot.Daily, filters)
	ds := filtered.Dataset

	report := &domain.GroupedReport{
		FilterStatus: filtered.Status(filters),
		GeneratedAt:  now,
		SnapshotID:   snapshot.ID,
	}

	groups := []struct {
		keys   []domain.GroupField
		target *[]domain.GroupRow
	}{
		{domain.GroupByAccount, &report.ByAccount},
		{domain.GroupByDate, &report.ByDate},
		{domain.GroupByDateAndError, &report.ByDateAndError},
		{domain.GroupByAccountAndDate, &report.ByAccountAndDate},
		{domain.GroupByAccountAndError, &report.ByAccountAndError},
		{domain.GroupByError, &report.ByError},
		{domain.GroupByAccountDateAndError, &report.ByAccountDateAndError},
	}
	for _, group := range groups {
		rows, err := GroupCount(ds, group.keys, domain.AdStatusDisapproved)
		if err != nil {
			return nil, err
		}
		*group.target = rows
	}

	return report, nil
}

func (s *Service) Today(ctx context.Context, filters domain.AdEventFilters) (*domain.TodayReport, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	filtered := ApplyFilters(snapshot.Events, filters)
	ds := filtered.Dataset

	published := WindowedCount(ds, domain.DateFieldCreatedAt, domain.WindowToday, now)
	rejected := WindowedCount(ds, domain.DateFieldStatusChangeAt, domain.WindowToday, now, domain.AdStatusDisapproved)
	topAccounts := TopKByRejections(ds, domain.WindowToday, todayTopAccounts, now)

	report := &domain.TodayReport{
		FilterStatus:    filtered.Status(filters),
		GeneratedAt:     now,
		SnapshotID:      snapshot.ID,
		Date:            now.In(ds.Location()).Format(time.DateOnly),
		PublishedAds:    published,
		RejectedAds:     rejected,
		RejectionRate:   RejectionRate(published, rejected),
		TopAccounts:     topAccounts,
		RejectedByError: CountByErrorType(WithinWindow(ds, domain.DateFieldStatusChangeAt, domain.WindowToday, now), domain.AdStatusDisapproved),
	}
	if len(topAccounts) > 0 {
		report.TopAccount = &topAccounts[0]
	}

	byHour, err := CountByHourOfDay(ds, domain.WindowToday, now, domain.AdStatusDisapproved)
	switch {
	case err == nil:
		report.RejectedByHour = byHour
	case errors.Is(err, ErrHourlyPrecision):
		// dataset só de datas, a página sai sem a quebra por hora
	default:
		return nil, err
	}

	return report, nil
}

func (s *Service) Hourly(ctx context.Context, filters domain.AdEventFilters, hours int) (*domain.HourlyReport, error) {
	if hours < 1 || hours > maxHourlyWindow {
		return nil, ErrInvalidHours
	}

	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()

	filtered := ApplyFilters(snapshot.Events, filters)
	ds := filtered.Dataset

	buckets, err := HourlyBucketCount(ds, hours, now)
	if err != nil {
		return nil, err
	}

	trend, err := HourlyTrend(ds, hours, now)
	if err != nil {
		return nil, err
	}

	since := now.Add(-time.Duration(hours) * time.Hour)
	window := Between(ds, since, now)

	report := &domain.HourlyReport{
		FilterStatus:      filtered.Status(filters),
		GeneratedAt:       now,
		SnapshotID:        snapshot.ID,
		Hours:             hours,
		LastHourRejected:  Count(Between(ds, now.Add(-time.Hour), now), domain.AdStatusDisapproved),
		WindowRejected:    Count(window, domain.AdStatusDisapproved),
		PeakHourRejected:  PeakBucket(buckets),
		Buckets:           buckets,
		Trend:             trend,
		TopAccounts:       TopKByRejectionsSince(ds, since, now, hourlyTopAccounts),
		TopAccountsHourly: make([]domain.AccountHourly, 0, hourlyDrillDown),
		TopErrorTypes:     CountByErrorType(window, domain.AdStatusDisapproved),
	}

	if len(report.TopErrorTypes) > hourlyTopErrors {
		report.TopErrorTypes = report.TopErrorTypes[:hourlyTopErrors]
	}

	for i, account := range report.TopAccounts {
		if i == hourlyDrillDown {
			break
		}
		accountBuckets, err := HourlyBucketCount(ApplyFilters(ds, domain.AdEventFilters{AdAccountID: account.AdAccountID}).Dataset, hours, now)
		if err != nil {
			return nil, err
		}
		report.TopAccountsHourly = append(report.TopAccountsHourly, domain.AccountHourly{
			AdAccountID: account.AdAccountID,
			Buckets:     accountBuckets,
		})
	}

	return report, nil
}

// Records devolve a listagem crua ordenada por created_at decrescente, datas nulas no fim.
func (s *Service) Records(ctx context.Context, filters domain.AdEventFilters, limit, offset int) (*domain.RecordsPage, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	if limit <= 0 {
		limit = defaultRecordLimit
	}
	if limit > maxRecordLimit {
		limit = maxRecordLimit
	}
	if offset < 0 {
		offset = 0
	}

	filtered := ApplyFilters(snapshot.Events, filters)
	records := sortedByCreatedAtDesc(filtered.Dataset)

	page := &domain.RecordsPage{
		FilterStatus: filtered.Status(filters),
		GeneratedAt:  now,
		SnapshotID:   snapshot.ID,
		Total:        len(records),
		Limit:        limit,
		Offset:       offset,
		Records:      []domain.AdEvent{},
	}

	if offset < len(records) {
		end := offset + limit
		if end > len(records) {
			end = len(records)
		}
		page.Records = records[offset:end]
	}

	return page, nil
}

func sortedByCreatedAtDesc(ds *Dataset) []domain.AdEvent {
	records := ds.Records()
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].CreatedAt, records[j].CreatedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return records
}

// Summary usa o memo de entrada única: mesma chave de snapshot, dia e filtro não recalcula.
func (s *Service) Summary(ctx context.Context, filters domain.AdEventFilters) (*domain.SummaryReport, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	filtered := ApplyFilters(snapshot.Daily, filters)
	day := now.In(snapshot.Daily.Location()).Format(time.DateOnly)
	key := snapshot.ID + "|" + day + "|" + filters.Key()

	rows, hit := s.summaries.Get(key, func() []domain.SummaryRow {
		return BuildSummary(filtered.Dataset, now)
	})
	s.metrics.RecordMemoLookup(hit)

	return &domain.SummaryReport{
		FilterStatus: filtered.Status(filters),
		GeneratedAt:  now,
		SnapshotID:   snapshot.ID,
		Rows:         rows,
	}, nil
}

// FilterOptions lista os valores distintos presentes no snapshot para montar os filtros.
func (s *Service) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	ds := snapshot.Daily
	subStatuses := newDistinct()
	errorTypes := newDistinct()
	var created, changed *domain.DateRange

	for i := range ds.records {
		r := &ds.records[i]
		if r.SubStatus != nil {
			subStatuses.add(*r.SubStatus)
		}
		if r.ErrorType != nil {
			errorTypes.add(*r.ErrorType)
		}
		created = extendRange(created, r.CreatedAt)
		changed = extendRange(changed, r.StatusChangeAt)
	}

	accountIDs := ds.AccountIDs()
	sort.Strings(accountIDs)

	return &domain.FilterOptions{
		Statuses:          []string{string(domain.AdStatusApproved), string(domain.AdStatusDisapproved)},
		SubStatuses:       subStatuses.sorted(),
		ErrorTypes:        errorTypes.sorted(),
		AdAccountIDs:      accountIDs,
		CreatedAtRange:    created,
		StatusChangeRange: changed,
	}, nil
}

// ExportTable devolve o dataset filtrado em forma tabular, na precisão lida do warehouse.
func (s *Service) ExportTable(ctx context.Context, filters domain.AdEventFilters) (domain.Table, error) {
	snapshot, err := s.ensureSnapshot(ctx)
	if err != nil {
		return domain.Table{}, err
	}

	filtered := ApplyFilters(snapshot.Events, filters)
	ordered := filtered.Dataset.derive(sortedByCreatedAtDesc(filtered.Dataset))
	return ordered.Table(), nil
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{})}
}

func (d *distinct) add(value string) {
	if _, ok := d.seen[value]; ok {
		return
	}
	d.seen[value] = struct{}{}
	d.values = append(d.values, value)
}

func (d *distinct) sorted() []string {
	out := make([]string, len(d.values))
	copy(out, d.values)
	sort.Strings(out)
	return out
}

func extendRange(r *domain.DateRange, t *time.Time) *domain.DateRange {
	if t == nil {
		return r
	}
	if r == nil {
		return &domain.DateRange{Start: *t, End: *t}
	}
	if t.Before(r.Start) {
		r.Start = *t
	}
	if t.After(r.End) {
		r.End = *t
	}
	return r
}
