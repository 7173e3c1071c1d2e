package moderation

import (
	"context"

	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

// AdEventFetcher define a leitura dos eventos de moderação no warehouse
type AdEventFetcher interface {
	// FetchAdEvents devolve as linhas já deduplicadas, com status derivado e feedback separado
	FetchAdEvents(ctx context.Context) (*domain.AdEventBatch, error)
}

// SnapshotCache guarda a última leitura para reaproveitar entre réplicas e reinícios
type SnapshotCache interface {
	// Load devolve nil, nil quando não há nada em cache
	Load(ctx context.Context) (*domain.AdEventBatch, error)
	Store(ctx context.Context, batch *domain.AdEventBatch) error
}

// Refresher recarrega o snapshot corrente
type Refresher interface {
	Refresh(ctx context.Context, force bool) (*Snapshot, error)
	Snapshot() (*Snapshot, error)
}

// Reporter monta as respostas de cada página do painel
type Reporter interface {
	Overview(ctx context.Context, filters domain.AdEventFilters) (*domain.OverviewReport, error)
	Grouped(ctx context.Context, filters domain.AdEventFilters) (*domain.GroupedReport, error)
	Today(ctx context.Context, filters domain.AdEventFilters) (*domain.TodayReport, error)
	Hourly(ctx context.Context, filters domain.AdEventFilters, hours int) (*domain.HourlyReport, error)
	Records(ctx context.Context, filters domain.AdEventFilters, limit, offset int) (*domain.RecordsPage, error)
	Summary(ctx context.Context, filters domain.AdEventFilters) (*domain.SummaryReport, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
	ExportTable(ctx context.Context, filters domain.AdEventFilters) (domain.Table, error)
}

//go:generate mockgen -destination=mocks/reporting_service.go -package=mocks . ReportingService

// ReportingService é a interface completa usada pela API e pela CLI
type ReportingService interface {
	Refresher
	Reporter
}
