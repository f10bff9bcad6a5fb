package results

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/vitaly/internal/session"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func serveLatest(r *mux.Router) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, session.LatestPath, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Latest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMocklatestGetter(ctrl)

	rate := 12.3
	repo.EXPECT().Latest(gomock.Any()).Return(&Result{
		ID:               "r1",
		SessionID:        "session_T1",
		Timestamp:        time.Date(2025, 3, 25, 12, 0, 0, 0, time.UTC),
		MuscleFatigue:    0.78,
		MuscleActivation: 0.65,
		Force:            123.45,
		Velocity:         1.23,
		PowerOutput:      45.6,
		FiringRate:       &rate,
	}, nil).Times(1)

	r := mux.NewRouter()
	NewHandler(repo, time.Minute).SetupRoutes(r)

	rr := serveLatest(r)
	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot session.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, "session_T1", snapshot.SessionID)
	assert.Equal(t, "2025-03-25T12:00:00", snapshot.Timestamp)
	assert.Equal(t, 0.65, snapshot.MuscleActivation)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Equal(t, 12.3, raw["firing_rate"])
	assert.Nil(t, raw["intensity"])

	// served from cache, repo called once
	cached := serveLatest(r)
	require.Equal(t, http.StatusOK, cached.Code)
	assert.Equal(t, rr.Body.String(), cached.Body.String())
}

func TestHandler_LatestNoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMocklatestGetter(ctrl)
	repo.EXPECT().Latest(gomock.Any()).Return(nil, ErrNotFound).Times(2)

	r := mux.NewRouter()
	NewHandler(repo, time.Minute).SetupRoutes(r)

	for i := 0; i < 2; i++ {
		rr := serveLatest(r)
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error": "No data found"}`, rr.Body.String())
	}
}

func TestHandler_LatestRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMocklatestGetter(ctrl)
	repo.EXPECT().Latest(gomock.Any()).Return(nil, errors.New("conn closed"))

	r := mux.NewRouter()
	NewHandler(repo, 0).SetupRoutes(r)

	rr := serveLatest(r)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_NoCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMocklatestGetter(ctrl)
	repo.EXPECT().Latest(gomock.Any()).Return(&Result{SessionID: "s"}, nil).Times(2)

	r := mux.NewRouter()
	NewHandler(repo, 0).SetupRoutes(r)

	assert.Equal(t, http.StatusOK, serveLatest(r).Code)
	assert.Equal(t, http.StatusOK, serveLatest(r).Code)
}
