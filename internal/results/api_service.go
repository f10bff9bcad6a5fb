package results

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/config"
	"github.com/2beens/vitaly/internal/db"
	"github.com/2beens/vitaly/internal/middleware"
	"github.com/2beens/vitaly/internal/telemetry/metrics"
	"github.com/2beens/vitaly/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

// ApiService is the telemetry API process: it serves /api/latest from the
// central repo and, when a local store is configured, syncs it periodically.
type ApiService struct {
	config  *config.Config
	dbPool  *pgxpool.Pool
	repo    *PsqlRepo
	local   *LocalStore
	syncer  *Syncer
	handler *Handler

	scheduler *clock.Loop
	syncJob   clock.Job

	httpServer        *http.Server
	metricsHttpServer *http.Server

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewApiServiceParams struct {
	Config                  *config.Config
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewApiService(ctx context.Context, params NewApiServiceParams) (*ApiService, error) {
	cfg := params.Config

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "telemetry-api", nil)
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	repo := NewPsqlRepo(dbPool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Errorf("ensure results schema: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("vitaly", "telemetry_api", promRegistry)

	s := &ApiService{
		config:         cfg,
		dbPool:         dbPool,
		repo:           repo,
		handler:        NewHandler(repo, DefaultLatestCacheTTL),
		scheduler:      clock.NewLoop(),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if cfg.SqlitePath != "" {
		local, err := NewLocalStore(cfg.SqlitePath)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("open local store: %w", err)
		}
		s.local = local
		s.syncer = NewSyncer(local, repo, DefaultSyncBatchSize, metricsManager)
	} else {
		log.Infoln("no sqlite path configured, local results sync disabled")
	}

	return s, nil
}

func (s *ApiService) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("telemetry-api-router"))

	s.handler.SetupRoutes(r)

	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *ApiService) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState: func(_ net.Conn, state http.ConnState) {
			connStateMetrics(s.metricsManager, state)
		},
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.TelemetryApiMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > telemetry api listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("telemetry api, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	if s.syncer != nil {
		s.syncJob = s.scheduler.Schedule(s.syncer.Task(s.config.SyncInterval))
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *ApiService) GracefulShutdown() {
	log.Debug("telemetry api graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	// stops the sync job, waiting for a sync in progress
	s.scheduler.Close()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
	}
	if s.metricsHttpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
	}
	if s.local != nil {
		shutdownErr = multierr.Append(shutdownErr, s.local.Close())
	}
	if shutdownErr != nil {
		log.Errorf(" >>> telemetry api shutdown: %s", shutdownErr)
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	log.Warnln("telemetry api shut down")
}

func connStateMetrics(metricsManager *metrics.Manager, state http.ConnState) {
	switch state {
	case http.StateNew:
		metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
