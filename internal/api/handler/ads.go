package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/internal/export"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/pkg/apiErrors"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
	"github.com/vfg2006/ad-review-dashboard/pkg/utils"
)

const defaultHourlyWindow = 4

// ParseFilters lê o predicado da query string. Parâmetros repetidos e valores
// separados por vírgula são aceitos para status, sub_status e error_type.
func ParseFilters(query url.Values) (domain.AdEventFilters, error) {
	filters := domain.AdEventFilters{
		AdAccountID: strings.TrimSpace(query.Get("ad_account_id")),
		SubStatusIn: multiValue(query, "sub_status"),
		ErrorTypeIn: multiValue(query, "error_type"),
	}

	for _, status := range multiValue(query, "status") {
		normalized := domain.AdStatus(strings.ToUpper(status))
		if normalized != domain.AdStatusApproved && normalized != domain.AdStatusDisapproved {
			return filters, fmt.Errorf("status inválido %q: use APPROVED ou DISAPPROVED", status)
		}
		filters.StatusIn = append(filters.StatusIn, normalized)
	}

	var err error
	filters.CreatedAtRange, err = parseDateRange(query, "created_from", "created_to")
	if err != nil {
		return filters, err
	}

	filters.StatusChangeRange, err = parseDateRange(query, "status_change_from", "status_change_to")
	if err != nil {
		return filters, err
	}

	return filters, nil
}

func multiValue(query url.Values, key string) []string {
	values := make([]string, 0)
	for _, raw := range query[key] {
		for _, value := range strings.Split(raw, ",") {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// parseDateRange exige as duas pontas juntas, no formato YYYY-MM-DD.
func parseDateRange(query url.Values, fromKey, toKey string) (*domain.DateRange, error) {
	fromValue, toValue := query.Get(fromKey), query.Get(toKey)
	if fromValue == "" && toValue == "" {
		return nil, nil
	}
	if fromValue == "" || toValue == "" {
		return nil, fmt.Errorf("%s e %s devem ser informados juntos", fromKey, toKey)
	}

	from, err := utils.ParseDate(fromValue)
	if err != nil {
		return nil, fmt.Errorf("%s inválido: %w", fromKey, err)
	}
	to, err := utils.ParseDate(toValue)
	if err != nil {
		return nil, fmt.Errorf("%s inválido: %w", toKey, err)
	}
	if to.Before(*from) {
		return nil, fmt.Errorf("%s deve ser anterior a %s", fromKey, toKey)
	}

	return &domain.DateRange{Start: *from, End: *to}, nil
}

func parseIntParam(query url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser um número inteiro", key)
	}
	return value, nil
}

// writeServiceError traduz os erros do serviço de relatórios para a API.
func writeServiceError(w http.ResponseWriter, logger log.Logger, err error) {
	switch {
	case moderation.IsUnavailable(err):
		logger.WithError(err).Error("ads: dataset indisponível")
		apiErrors.WriteError(w, apiErrors.ErrDatasetUnavailable, "Dados indisponíveis no momento, tente novamente mais tarde", nil)
	case errors.Is(err, moderation.ErrHourlyPrecision):
		logger.WithError(err).Warn("ads: visão por hora pedida em dataset com precisão de data")
		apiErrors.WriteError(w, apiErrors.ErrUnsupportedDataset, "A visão por hora exige dados com horário", nil)
	case errors.Is(err, moderation.ErrInvalidHours):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
	default:
		logger.WithError(err).Error("ads: erro ao montar o relatório")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar relatório", nil)
	}
}

func writeJSON(w http.ResponseWriter, logger log.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("ads: erro ao codificar a resposta")
	}
}

// filteredReport cobre as páginas que só dependem do predicado.
func filteredReport[T any](name string, build func(r *http.Request, filters domain.AdEventFilters) (T, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := ParseFilters(r.URL.Query())
		if err != nil {
			logger.WithError(err).Warn("ads: filtros inválidos")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		report, err := build(r, filters)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		logger.WithField("filters", filters.Key()).Debugf("ads: relatório %s servido", name)
		writeJSON(w, logger, report)
	})
}

func GetOverview(service moderation.Reporter) http.Handler {
	return filteredReport("overview", func(r *http.Request, filters domain.AdEventFilters) (*domain.OverviewReport, error) {
		return service.Overview(r.Context(), filters)
	})
}

func GetGrouped(service moderation.Reporter) http.Handler {
	return filteredReport("grouped", func(r *http.Request, filters domain.AdEventFilters) (*domain.GroupedReport, error) {
		return service.Grouped(r.Context(), filters)
	})
}

func GetToday(service moderation.Reporter) http.Handler {
	return filteredReport("today", func(r *http.Request, filters domain.AdEventFilters) (*domain.TodayReport, error) {
		return service.Today(r.Context(), filters)
	})
}

func GetSummary(service moderation.Reporter) http.Handler {
	return filteredReport("summary", func(r *http.Request, filters domain.AdEventFilters) (*domain.SummaryReport, error) {
		return service.Summary(r.Context(), filters)
	})
}

// GetHourly aceita ?hours=N (padrão 4) e rotula as faixas no fuso de exibição.
func GetHourly(service moderation.Reporter, display *time.Location) http.Handler {
	if display == nil {
		display = time.UTC
	}

	return filteredReport("hourly", func(r *http.Request, filters domain.AdEventFilters) (*domain.HourlyReport, error) {
		hours, err := parseIntParam(r.URL.Query(), "hours", defaultHourlyWindow)
		if err != nil {
			return nil, errors.Join(moderation.ErrInvalidHours, err)
		}

		report, err := service.Hourly(r.Context(), filters, hours)
		if err != nil {
			return nil, err
		}

		labelBuckets(report.Buckets, display)
		labelBuckets(report.Trend, display)
		for i := range report.TopAccountsHourly {
			labelBuckets(report.TopAccountsHourly[i].Buckets, display)
		}
		return report, nil
	})
}

func labelBuckets(buckets []domain.HourBucket, loc *time.Location) {
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("%s - %s", buckets[i].Start.In(loc).Format("15:04"), buckets[i].End.In(loc).Format("15:04"))
	}
}

func GetRecords(service moderation.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		query := r.URL.Query()

		filters, err := ParseFilters(query)
		if err != nil {
			logger.WithError(err).Warn("ads: filtros inválidos")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		limit, err := parseIntParam(query, "limit", 0)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		offset, err := parseIntParam(query, "offset", 0)
		if err != nil || offset < 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "offset deve ser um inteiro não negativo", nil)
			return
		}

		page, err := service.Records(r.Context(), filters, limit, offset)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, page)
	})
}

func GetFilterOptions(service moderation.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		options, err := service.FilterOptions(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, options)
	})
}

// ExportAds devolve o dataset filtrado como anexo CSV ou XLSX.
func ExportAds(service moderation.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		query := r.URL.Query()

		format, err := export.ParseFormat(query.Get("format"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "format deve ser csv ou xlsx", nil)
			return
		}

		filters, err := ParseFilters(query)
		if err != nil {
			logger.WithError(err).Warn("ads: filtros inválidos")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		table, err := service.ExportTable(r.Context(), filters)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, table); err != nil {
			logger.WithError(err).Error("ads: erro ao gerar a exportação")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar arquivo", nil)
			return
		}

		logger.WithFields(log.Fields{
			"format": format,
			"rows":   len(table.Rows),
		}).Info("ads: exportação gerada")

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(time.Now(), format)))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := buf.WriteTo(w); err != nil {
			logger.WithError(err).Warn("ads: exportação interrompida")
		}
	})
}
