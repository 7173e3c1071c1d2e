package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ad-review-dashboard/internal/api/handler/router"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/pkg/metrics"
	"github.com/vfg2006/ad-review-dashboard/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck(service moderation.Refresher) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(service),
		},
	}
}

func Metrics(m *metrics.Metrics) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: m.Handler(),
		},
	}
}

func Ads(service moderation.Reporter, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/ads/overview",
			Method:      http.MethodGet,
			Handler:     GetOverview(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/grouped",
			Method:      http.MethodGet,
			Handler:     GetGrouped(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/today",
			Method:      http.MethodGet,
			Handler:     GetToday(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/hourly",
			Method:      http.MethodGet,
			Handler:     GetHourly(service, cfg.App.DisplayLocation),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/records",
			Method:      http.MethodGet,
			Handler:     GetRecords(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/summary",
			Method:      http.MethodGet,
			Handler:     GetSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/filters",
			Method:      http.MethodGet,
			Handler:     GetFilterOptions(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/export",
			Method:      http.MethodGet,
			Handler:     ExportAds(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(refresher DatasetRefresher) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(refresher),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(refresher),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
