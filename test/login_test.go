//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/vitaly/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		form               auth.LoginForm
		expectedStatusCode int
	}{
		"good form":          {form: auth.LoginForm{Email: "a@b.com", Password: "x"}, expectedStatusCode: http.StatusOK},
		"register with name": {form: auth.LoginForm{Email: "a@b.com", Password: "x", Name: "Ana", Register: true}, expectedStatusCode: http.StatusOK},
		"missing password":   {form: auth.LoginForm{Email: "a@b.com"}, expectedStatusCode: http.StatusBadRequest},
		"missing email":      {form: auth.LoginForm{Password: "x"}, expectedStatusCode: http.StatusBadRequest},
		"register, no name":  {form: auth.LoginForm{Email: "a@b.com", Password: "x", Register: true}, expectedStatusCode: http.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postLogin(ctx, t, s.httpClient, tc.form)
			defer resp.Body.Close()
			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			if tc.expectedStatusCode != http.StatusBadRequest {
				return
			}
			respBytes, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var errResp map[string]string
			require.NoError(t, json.Unmarshal(respBytes, &errResp))
			assert.Equal(t, auth.ValidationMessage, errResp["error"])
		})
	}
}

func (s *IntegrationTestSuite) TestLoginThenLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t, s.httpClient)

	resp, err := s.httpClient.Do(authedRequest(ctx, t, "GET", "/a/logout", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the session is gone, so is the view
	resp, err = s.httpClient.Do(authedRequest(ctx, t, "GET", "/dashboard", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = s.httpClient.Do(authedRequest(ctx, t, "GET", "/a/logout", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
