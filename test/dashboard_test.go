//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/vitaly/internal/dashboard"
	"github.com/2beens/vitaly/internal/results"
	"github.com/2beens/vitaly/internal/session"
	"github.com/2beens/vitaly/internal/widgets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) fetchPage(ctx context.Context, token string) (dashboard.Page, int) {
	t := s.T()
	resp, err := s.httpClient.Do(authedRequest(ctx, t, "GET", "/dashboard", token, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var page dashboard.Page
	if resp.StatusCode != http.StatusOK {
		return page, resp.StatusCode
	}
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(respBytes, &page))
	return page, resp.StatusCode
}

func (s *IntegrationTestSuite) TestSeededResultsReachTheDashboard() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// local rows are synced into postgres by the telemetry api
	require.Eventually(t, func() bool {
		var count int
		if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM processed_result`).Scan(&count); err != nil {
			return false
		}
		return count == seededWindows
	}, 10*time.Second, 100*time.Millisecond)

	snapshot, err := session.NewClient(telemetryApiEndpoint, nil).Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.seededSessionID, snapshot.SessionID)

	token := doLogin(ctx, t, s.httpClient)

	var page dashboard.Page
	require.Eventually(t, func() bool {
		var code int
		page, code = s.fetchPage(ctx, token)
		return code == http.StatusOK && page.TopBar.Session == s.seededSessionID
	}, 5*time.Second, 100*time.Millisecond)

	assert.True(t, page.Authenticated)
	assert.NotEqual(t, widgets.Placeholder, page.QuickStats[0].Value)
	assert.Equal(t, "session", page.ForceVelocityKind)
	assert.Len(t, page.Widgets, len(dashboard.WidgetNames))
}

func (s *IntegrationTestSuite) TestTelemetryApiCors() {
	t := s.T()
	req, err := http.NewRequest("GET", telemetryApiEndpoint+session.LatestPath, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req.Header.Set("Origin", "http://localhost:5173")
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	var latest results.LatestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&latest))
	assert.Equal(t, s.seededSessionID, latest.SessionID)
}

func (s *IntegrationTestSuite) TestChatAndTabs() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t, s.httpClient)

	req := authedRequest(ctx, t, "POST", "/dashboard/chat", token, strings.NewReader(`{"text":"how tired am I?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = authedRequest(ctx, t, "PUT", "/dashboard/tab", token, strings.NewReader(fmt.Sprintf(`{"tab":"%s"}`, dashboard.TabCoach)))
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page, code := s.fetchPage(ctx, token)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, page.Chat, 3)
	for _, tab := range page.Tabs {
		assert.Equal(t, tab.Name == dashboard.TabCoach, tab.Selected)
	}
}
