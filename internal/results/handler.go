package results

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/vitaly/internal/session"
	"github.com/2beens/vitaly/internal/telemetry/tracing"
	"github.com/2beens/vitaly/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_handler_test.go -package=results

const (
	DefaultLatestCacheTTL = 2 * time.Second
	NoDataMessage         = "No data found"

	latestCacheKey = "latest"
)

type latestGetter interface {
	Latest(ctx context.Context) (*Result, error)
}

type Handler struct {
	repo     latestGetter
	cache    *freecache.Cache
	cacheTTL time.Duration
}

// NewHandler serves the latest result. A non-positive cacheTTL disables caching.
func NewHandler(repo latestGetter, cacheTTL time.Duration) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		repo:     repo,
		cache:    freecache.NewCache(megabyte),
		cacheTTL: cacheTTL,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc(session.LatestPath, handler.HandleLatest).Methods("GET", "OPTIONS").Name("latest-result")
}

func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "resultsHandler.latest")
	defer span.End()

	if cached, err := handler.cache.Get([]byte(latestCacheKey)); err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	result, err := handler.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			pkg.WriteJSONError(w, NoDataMessage, http.StatusNotFound)
			return
		}
		log.Errorf("get latest result: %s", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(result.Response())
	if err != nil {
		log.Errorf("marshal latest result: %s", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if ttl := int(handler.cacheTTL.Seconds()); ttl > 0 {
		if err := handler.cache.Set([]byte(latestCacheKey), respBytes, ttl); err != nil {
			log.Warnf("cache latest result: %s", err)
		}
	}

	span.SetAttributes(attribute.String("session.id", result.SessionID))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
