package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
)

var ErrRefreshRunning = errors.New("recarga do dataset já em andamento")

// DatasetRefreshConfig representa a configuração do agendador de recarga do dataset
type DatasetRefreshConfig struct {
	CronSchedule     string
	RefreshEnabled   bool
	RefreshOnStartup bool
}

// DatasetRefreshService agenda a recarga do snapshot de moderação. O agendamento
// não força a leitura, então réplicas reaproveitam o cache compartilhado; a
// execução manual sempre vai ao warehouse.
type DatasetRefreshService struct {
	scheduler *gocron.Scheduler
	config    DatasetRefreshConfig
	refresher moderation.Refresher

	baseCtx context.Context

	refreshMutex        sync.Mutex
	refreshRunning      bool
	lastRefreshStarted  time.Time
	lastRefreshFinished time.Time
	lastTrigger         string
	lastError           string
	lastSnapshotID      string
	lastSnapshotRows    int
}

// NewDatasetRefreshService cria o agendador usando o fuso de relatório para o cron
func NewDatasetRefreshService(refresher moderation.Refresher, appConfig *config.Config) *DatasetRefreshService {
	refreshConfig := DatasetRefreshConfig{
		CronSchedule:     appConfig.DatasetRefresh.CronSchedule,
		RefreshEnabled:   appConfig.DatasetRefresh.Enabled,
		RefreshOnStartup: appConfig.DatasetRefresh.RefreshOnStartup,
	}

	location := appConfig.App.ReportLocation
	if location == nil {
		location = time.UTC
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":      refreshConfig.CronSchedule,
		"refresh_enabled":    refreshConfig.RefreshEnabled,
		"refresh_on_startup": refreshConfig.RefreshOnStartup,
		"timezone":           location.String(),
	}).Info("scheduler: configuração da recarga do dataset carregada")

	return &DatasetRefreshService{
		scheduler: gocron.NewScheduler(location),
		config:    refreshConfig,
		refresher: refresher,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador
func (s *DatasetRefreshService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if s.config.RefreshOnStartup {
		go s.refresh("startup", false)
	}

	if !s.config.RefreshEnabled {
		logrus.Info("scheduler: recarga do dataset desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("scheduler: iniciando o agendador de recarga do dataset")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.refresh("cron", false)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recarga do dataset: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("scheduler: parando o agendador de recarga do dataset")
		s.scheduler.Stop()
	}()

	return nil
}

// refresh executa uma recarga. Devolve false quando outra já estava rodando.
func (s *DatasetRefreshService) refresh(trigger string, force bool) bool {
	if !s.claim(trigger) {
		logrus.WithField("trigger", trigger).Info("scheduler: recarga já em andamento, ignorando")
		return false
	}
	s.run(trigger, force)
	return true
}

// claim marca a recarga como em andamento. Falso se outra já está rodando.
func (s *DatasetRefreshService) claim(trigger string) bool {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	if s.refreshRunning {
		return false
	}
	s.refreshRunning = true
	s.lastRefreshStarted = time.Now()
	s.lastTrigger = trigger
	return true
}

// run executa uma recarga já reservada por claim.
func (s *DatasetRefreshService) run(trigger string, force bool) {
	snapshot, err := s.refresher.Refresh(s.baseCtx, force)

	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	s.refreshRunning = false
	s.lastRefreshFinished = time.Now()
	duration := s.lastRefreshFinished.Sub(s.lastRefreshStarted)

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).WithFields(logrus.Fields{
			"trigger":     trigger,
			"duration_ms": duration.Milliseconds(),
		}).Error("scheduler: erro na recarga do dataset")
		return
	}

	s.lastError = ""
	s.lastSnapshotID = snapshot.ID
	s.lastSnapshotRows = snapshot.Events.Len()

	logrus.WithFields(logrus.Fields{
		"trigger":     trigger,
		"snapshot_id": snapshot.ID,
		"source":      snapshot.Source,
		"rows":        s.lastSnapshotRows,
		"duration_ms": duration.Milliseconds(),
	}).Info("scheduler: dataset recarregado")
}

// TriggerManualSync dispara uma recarga forçada em segundo plano. A reserva
// acontece antes de voltar, então um segundo pedido imediato recebe ErrRefreshRunning.
func (s *DatasetRefreshService) TriggerManualSync() error {
	if !s.claim("manual") {
		logrus.Info("scheduler: recarga já em andamento, ignorando pedido manual")
		return ErrRefreshRunning
	}

	logrus.Info("scheduler: recarga manual do dataset solicitada")
	go s.run("manual", true)
	return nil
}

// GetStatus retorna o status atual do agendador
func (s *DatasetRefreshService) GetStatus() map[string]any {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	status := map[string]any{
		"refresh_enabled":            s.config.RefreshEnabled,
		"refresh_cron":               s.config.CronSchedule,
		"refresh_running":            s.refreshRunning,
		"last_refresh_trigger":       s.lastTrigger,
		"last_refresh_started_at":    s.lastRefreshStarted,
		"last_refresh_completed_at":  s.lastRefreshFinished,
		"last_refresh_error":         s.lastError,
		"current_snapshot_id":        s.lastSnapshotID,
		"current_snapshot_row_count": s.lastSnapshotRows,
	}

	if _, next := s.scheduler.NextRun(); !next.IsZero() {
		status["next_refresh_at"] = next
	}

	return status
}
