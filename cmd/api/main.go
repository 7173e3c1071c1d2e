package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/cache"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/repository"
	"github.com/vfg2006/ad-review-dashboard/internal/api"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/scheduler"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
	"github.com/vfg2006/ad-review-dashboard/pkg/metrics"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := log.Configure(cfg.App.LogLevel); err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logrus.SetLevel(logrus.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	adEventRepo := repository.NewAdEventRepository(pgConn, cfg.Database)

	// Sem Redis a interface fica nil e o snapshot vive só na memória do processo
	var snapshotCache moderation.SnapshotCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("cache: redis indisponível, seguindo sem o cache compartilhado do snapshot")
		} else {
			defer redisClient.Close()
			snapshotCache = cache.NewRedisSnapshotStore(redisClient, cfg.Redis)
			logrus.Info("cache: cache do snapshot no redis habilitado")
		}
	}

	m := metrics.NewMetrics(cfg.Metrics.Namespace)

	reportingService := moderation.NewService(cfg, adEventRepo, snapshotCache, m)

	authenticator := authenticating.NewService(cfg)

	datasetRefreshService := scheduler.NewDatasetRefreshService(reportingService, cfg)
	if err := datasetRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("scheduler: erro ao iniciar o agendador de recarga do dataset")
	} else {
		logrus.Info("scheduler: agendador de recarga do dataset iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		reportingService,
		authenticator,
		datasetRefreshService,
		m,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato dos logs até a configuração ser lida.
// O .env é procurado pelo config a partir do diretório de trabalho.
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria a conexão com o warehouse
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("warehouse: erro ao conectar")
	}

	logrus.Info("warehouse: conexão estabelecida com sucesso")
	return conn
}
