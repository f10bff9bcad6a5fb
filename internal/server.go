package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/vitaly/internal/auth"
	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/config"
	"github.com/2beens/vitaly/internal/dashboard"
	"github.com/2beens/vitaly/internal/middleware"
	"github.com/2beens/vitaly/internal/session"
	"github.com/2beens/vitaly/internal/telemetry/metrics"
	"github.com/2beens/vitaly/internal/telemetry/tracing"
	"github.com/2beens/vitaly/pkg"
)

const (
	sessionsCleanupPeriod = time.Hour * 8
	versionPath           = "/version"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// every view timer, and the sessions cleanup, runs on this scheduler
	scheduler  *clock.Loop
	cleanupJob clock.Job
	registry   *dashboard.Registry

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("vitaly", "dashboard", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "vitaly-dashboard", rdb)
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	scheduler := clock.NewLoop()
	sessionClient := session.NewClient(
		params.Config.TelemetryApiURL,
		session.NewTracedHttpClient(params.Config.PollInterval),
	)
	pollInterval := params.Config.PollInterval

	s := &Server{
		config:       params.Config,
		versionInfo:  params.VersionInfo,
		redisClient:  rdb,
		authService:  auth.NewAuthService(auth.DefaultTTL, rdb),
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		scheduler:    scheduler,
		registry: dashboard.NewRegistry(func() *dashboard.View {
			return dashboard.NewView(dashboard.ViewDeps{
				Scheduler:    scheduler,
				Source:       sessionClient,
				PollInterval: pollInterval,
				Metrics:      metricsManager,
			})
		}, metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

// cleanupSessions drops expired redis sessions and closes their views.
func (s *Server) cleanupSessions(ctx context.Context) {
	removed := s.authService.ScanAndClean(ctx)
	for _, token := range removed {
		s.registry.Close(token)
	}
	if len(removed) > 0 {
		log.Debugf("closed %d expired dashboard sessions", len(removed))
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("dashboard-router"))

	var rateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	dashboardHandler := dashboard.NewHandler(s.registry, s.authService, s.metricsManager)
	dashboardHandler.SetupRoutes(r, rateLimiter, s.config.LoginRateLimitAllowedPerMin)

	r.HandleFunc(versionPath, func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET", "OPTIONS").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.loginChecker,
		[]string{versionPath},
		nil,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.cleanupJob = s.scheduler.Schedule(clock.Task{
		Name:   "auth-sessions-cleanup",
		Period: sessionsCleanupPeriod,
		Run:    s.cleanupSessions,
	})

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	// views first, so no poll outlives the server
	s.registry.CloseAll()
	s.scheduler.Close()
	log.Trace("dashboard views and timers stopped ...")

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
	if s.redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, s.redisClient.Close())
	}
	if shutdownErr != nil {
		log.Errorf(" >>> server shutdown: %s", shutdownErr)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	log.Warnln("server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
