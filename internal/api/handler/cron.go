package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-review-dashboard/internal/scheduler"
	"github.com/vfg2006/ad-review-dashboard/pkg/apiErrors"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeRefresh = "refresh"
)

// DatasetRefresher é o agendador de recarga visto pela API
type DatasetRefresher interface {
	TriggerManualSync() error
	GetStatus() map[string]any
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(refresher DatasetRefresher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType != CronJobTypeRefresh {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: refresh", nil)
			return
		}

		if refresher == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de recarga do dataset não disponível", nil)
			return
		}

		if err := refresher.TriggerManualSync(); err != nil {
			if errors.Is(err, scheduler.ErrRefreshRunning) {
				apiErrors.WriteError(w, apiErrors.ErrRefreshInProgress, "Recarga do dataset já em andamento", nil)
				return
			}
			logger.WithError(err).Error("cron: erro ao disparar a recarga do dataset")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar recarga", nil)
			return
		}

		logger.WithField("type", cronType).Info("cron: execução manual aceita")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(refresher DatasetRefresher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if refresher != nil {
			status[CronJobTypeRefresh] = refresher.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})
}
