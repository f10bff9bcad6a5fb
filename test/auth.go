//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/vitaly/internal/auth"

	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	Token string `json:"token"`
}

func postLogin(ctx context.Context, t *testing.T, client *http.Client, form auth.LoginForm) *http.Response {
	t.Helper()
	formJson, err := json.Marshal(form)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(formJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func doLogin(ctx context.Context, t *testing.T, client *http.Client) string {
	t.Helper()
	resp := postLogin(ctx, t, client, auth.LoginForm{Email: "athlete@vitaly.app", Password: "pass"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var loginResp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)
	return loginResp.Token
}

func authedRequest(ctx context.Context, t *testing.T, method, path, token string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	require.NoError(t, err)
	req.Header.Set(auth.TokenHeader, token)
	return req
}
