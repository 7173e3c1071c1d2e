package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation/mocks"
	"github.com/vfg2006/ad-review-dashboard/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    domain.AdEventFilters
		wantErr bool
	}{
		{
			name:  "sem filtros",
			query: "",
			want:  domain.AdEventFilters{},
		},
		{
			name:  "todos os campos",
			query: "ad_account_id=act_1&status=disapproved&sub_status=ACTIVE,PAUSED&error_type=POLICY&error_type=CIRCUMVENTING&created_from=2025-06-01&created_to=2025-06-15&status_change_from=2025-06-10&status_change_to=2025-06-10",
			want: domain.AdEventFilters{
				AdAccountID:       "act_1",
				StatusIn:          []domain.AdStatus{domain.AdStatusDisapproved},
				SubStatusIn:       []string{"ACTIVE", "PAUSED"},
				ErrorTypeIn:       []string{"POLICY", "CIRCUMVENTING"},
				CreatedAtRange:    &domain.DateRange{Start: day(2025, 6, 1), End: day(2025, 6, 15)},
				StatusChangeRange: &domain.DateRange{Start: day(2025, 6, 10), End: day(2025, 6, 10)},
			},
		},
		{name: "status desconhecido", query: "status=PENDING", wantErr: true},
		{name: "intervalo incompleto", query: "created_from=2025-06-01", wantErr: true},
		{name: "data em outro formato", query: "created_from=01/06/2025&created_to=15/06/2025", wantErr: true},
		{name: "intervalo invertido", query: "status_change_from=2025-06-15&status_change_to=2025-06-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseFilters(query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetOverview(t *testing.T) {
	t.Run("repassa os filtros e responde o relatório", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		filters := domain.AdEventFilters{AdAccountID: "act_1"}
		service.EXPECT().Overview(gomock.Any(), filters).Return(&domain.OverviewReport{
			SnapshotID:    "snap01",
			Overall:       domain.AdOverview{TotalAds: 6, TotalRejectedAds: 4},
			FilteredShare: 50,
		}, nil)

		rec := serve(GetOverview(service), "/v1/ads/overview?ad_account_id=act_1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"snapshot_id":"snap01"`)
		assert.Contains(t, rec.Body.String(), `"total_rejected_ads":4`)
	})

	t.Run("filtro inválido não chama o serviço", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		rec := serve(GetOverview(service), "/v1/ads/overview?status=UNKNOWN")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidFormat)
	})

	t.Run("sem dataset responde 503", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		fetchErr := moderation.NewFetchError(moderation.FetchUnavailable, errors.New("connection refused"), "")
		service.EXPECT().Overview(gomock.Any(), gomock.Any()).Return(nil, errors.Join(moderation.ErrNoDataset, fetchErr))

		rec := serve(GetOverview(service), "/v1/ads/overview")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrDatasetUnavailable)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestGetHourly(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	t.Run("rotula as faixas no fuso de exibição", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		start := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
		service.EXPECT().Hourly(gomock.Any(), domain.AdEventFilters{}, defaultHourlyWindow).Return(&domain.HourlyReport{
			Hours:   defaultHourlyWindow,
			Buckets: []domain.HourBucket{{Start: start, End: start.Add(time.Hour), Count: 2}},
			Trend:   []domain.HourBucket{{Start: start, End: start.Add(time.Hour), Count: 2}},
			TopAccountsHourly: []domain.AccountHourly{
				{AdAccountID: "act_1", Buckets: []domain.HourBucket{{Start: start, End: start.Add(time.Hour), Count: 1}}},
			},
		}, nil)

		rec := serve(GetHourly(service, ist), "/v1/ads/hourly")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, strings.Count(rec.Body.String(), `"label":"14:30 - 15:30"`))
	})

	t.Run("hours inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		rec := serve(GetHourly(service, ist), "/v1/ads/hourly?hours=quatro")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidFormat)
	})

	t.Run("hours fora do limite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)
		service.EXPECT().Hourly(gomock.Any(), gomock.Any(), 72).Return(nil, moderation.ErrInvalidHours)

		rec := serve(GetHourly(service, ist), "/v1/ads/hourly?hours=72")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dataset só com datas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)
		service.EXPECT().Hourly(gomock.Any(), gomock.Any(), 6).Return(nil, moderation.ErrHourlyPrecision)

		rec := serve(GetHourly(service, nil), "/v1/ads/hourly?hours=6")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrUnsupportedDataset)
	})
}

func TestGetRecords(t *testing.T) {
	t.Run("paginação", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)
		service.EXPECT().Records(gomock.Any(), domain.AdEventFilters{}, 50, 100).Return(&domain.RecordsPage{
			Total: 120, Limit: 50, Offset: 100, Records: []domain.AdEvent{},
		}, nil)

		rec := serve(GetRecords(service), "/v1/ads/records?limit=50&offset=100")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":120`)
	})

	t.Run("offset negativo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		rec := serve(GetRecords(service), "/v1/ads/records?offset=-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetFilterOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockReportingService(ctrl)
	service.EXPECT().FilterOptions(gomock.Any()).Return(&domain.FilterOptions{
		Statuses:     []string{"APPROVED", "DISAPPROVED"},
		AdAccountIDs: []string{"act_1"},
	}, nil)

	rec := serve(GetFilterOptions(service), "/v1/ads/filters")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ad_account_ids":["act_1"]`)
}

func TestExportAds(t *testing.T) {
	table := domain.Table{
		Header: []string{"ad_account_id", "ad_id"},
		Rows:   [][]string{{"act_1", "ad-1"}},
	}

	t.Run("csv", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)
		service.EXPECT().ExportTable(gomock.Any(), domain.AdEventFilters{AdAccountID: "act_1"}).Return(table, nil)

		rec := serve(ExportAds(service), "/v1/ads/export?format=csv&ad_account_id=act_1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Regexp(t, `attachment; filename="ads_data_\d{8}_\d{6}\.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "ad_account_id,ad_id\nact_1,ad-1\n", rec.Body.String())
	})

	t.Run("xlsx", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)
		service.EXPECT().ExportTable(gomock.Any(), gomock.Any()).Return(table, nil)

		rec := serve(ExportAds(service), "/v1/ads/export?format=xlsx")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
		assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
	})

	t.Run("formato desconhecido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockReportingService(ctrl)

		rec := serve(ExportAds(service), "/v1/ads/export?format=pdf")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
