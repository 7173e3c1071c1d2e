package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-review-dashboard/internal/api/handler"
	"github.com/vfg2006/ad-review-dashboard/internal/api/handler/router"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/pkg/metrics"
	"github.com/vfg2006/ad-review-dashboard/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	reportingService moderation.ReportingService,
	authenticator authenticating.Authenticator,
	refresher handler.DatasetRefresher,
	m *metrics.Metrics,
) (*Server, error) {
	rt := NewHandler(config, reportingService, authenticator, refresher, m)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           rt,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      2 * time.Minute, // exportações XLSX grandes
		},
	}

	return srv, nil
}

// NewHandler monta o router com a cadeia de middlewares global.
func NewHandler(
	config *config.Config,
	reportingService moderation.ReportingService,
	authenticator authenticating.Authenticator,
	refresher handler.DatasetRefresher,
	m *metrics.Metrics,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(reportingService)...),
		router.WithRoutes(handler.Metrics(m)...),
		router.WithRoutes(handler.Ads(reportingService, config)...),
		router.WithRoutes(handler.CronJobs(refresher)...),
	)

	middlewares := []alice.Constructor{
		middleware.LoggingMiddleware(0),
		middleware.LogPanicMiddleware(),
		middleware.MetricsMiddleware(m),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
