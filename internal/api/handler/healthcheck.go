package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
)

// HealthcheckHandler responde sempre 200; dataset_loaded indica se já há snapshot publicado.
func HealthcheckHandler(service moderation.Refresher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"status":         "ok",
			"time":           time.Now().UTC(),
			"dataset_loaded": false,
		}

		if service != nil {
			if snapshot, err := service.Snapshot(); err == nil {
				response["dataset_loaded"] = true
				response["snapshot_id"] = snapshot.ID
				response["snapshot_fetched_at"] = snapshot.FetchedAt
				response["snapshot_rows"] = snapshot.Events.Len()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Warn("Erro ao responder o healthcheck")
		}
	})
}
