package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/vitaly/internal/auth"
	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/config"
	"github.com/2beens/vitaly/internal/dashboard"
	"github.com/2beens/vitaly/internal/session"
	"github.com/2beens/vitaly/internal/telemetry/metrics"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionKeyPrefix = "vitaly-dashboard-session||"

type staticSource struct {
	snapshot session.Snapshot
}

func (s staticSource) Latest(context.Context) (*session.Snapshot, error) {
	cp := s.snapshot
	return &cp, nil
}

func newTestServer(t *testing.T) (*Server, redismock.ClientMock, *clock.Manual) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	sched := clock.NewManual(time.Date(2025, 3, 25, 12, 0, 0, 0, time.UTC))
	metricsManager := metrics.NewTestManager()
	source := staticSource{snapshot: session.Snapshot{SessionID: "session_T1", MuscleActivation: 0.5}}

	s := &Server{
		config: &config.Config{
			AllowedOrigins:              []string{"http://localhost:5173"},
			LoginRateLimitAllowedPerMin: 15,
		},
		versionInfo:  "test-version",
		authService:  auth.NewAuthService(auth.DefaultTTL, rdb),
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		registry: dashboard.NewRegistry(func() *dashboard.View {
			return dashboard.NewView(dashboard.ViewDeps{
				Scheduler:    sched,
				Source:       source,
				PollInterval: 10 * time.Second,
				Metrics:      metricsManager,
			})
		}, metricsManager),
		metricsManager: metricsManager,
	}
	t.Cleanup(s.registry.CloseAll)

	return s, mock, sched
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestServer_Routes(t *testing.T) {
	s, mock, _ := newTestServer(t)
	router := s.routerSetup()

	rr := doRequest(router, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())

	rr = doRequest(router, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(router, http.MethodOptions, "/dashboard", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// valid redis session, but no mounted view
	mock.ExpectGet(testSessionKeyPrefix + "tkn").SetVal(fmt.Sprintf("%d", time.Now().Unix()))
	rr = doRequest(router, http.MethodGet, "/dashboard", "tkn")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	_, err := s.registry.Open("tkn", auth.LoginForm{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	mock.ExpectGet(testSessionKeyPrefix + "tkn").SetVal(fmt.Sprintf("%d", time.Now().Unix()))
	rr = doRequest(router, http.MethodGet, "/dashboard", "tkn")
	require.Equal(t, http.StatusOK, rr.Code)

	var page dashboard.Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, "session_T1", page.TopBar.Session)

	// logged out session is rejected by the auth middleware
	mock.ExpectGet(testSessionKeyPrefix + "tkn").SetVal("0")
	rr = doRequest(router, http.MethodGet, "/dashboard", "tkn")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	mock.ExpectGet(testSessionKeyPrefix + "tkn").SetVal(fmt.Sprintf("%d", time.Now().Unix()))
	rr = doRequest(router, http.MethodGet, "/nothing-here", "tkn")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Greater(t, testutil.CollectAndCount(s.metricsManager.CounterRequests), 0)
}

func TestServer_CleanupSessionsClosesViews(t *testing.T) {
	s, mock, sched := newTestServer(t)

	form := auth.LoginForm{Email: "a@b.com", Password: "x"}
	_, err := s.registry.Open("expired", form)
	require.NoError(t, err)
	_, err = s.registry.Open("fresh", form)
	require.NoError(t, err)

	mock.ExpectSMembers("vitaly-dashboard-sessions").SetVal([]string{"expired", "fresh"})
	mock.ExpectGet(testSessionKeyPrefix + "expired").SetVal(fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix()))
	mock.ExpectGet(testSessionKeyPrefix + "fresh").SetVal(fmt.Sprintf("%d", time.Now().Unix()))
	mock.ExpectDel(testSessionKeyPrefix + "expired").SetVal(1)
	mock.ExpectSRem("vitaly-dashboard-sessions", "expired").SetVal(1)

	s.cleanupSessions(context.Background())
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, s.registry.Len())
	_, ok := s.registry.Get("expired")
	assert.False(t, ok)
	// the fresh view keeps its generators and poller
	assert.Equal(t, 4, sched.Pending())
}
