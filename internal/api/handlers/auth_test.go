package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ecotrace/ecotrace-backend/internal/api/handlers"
	"github.com/ecotrace/ecotrace-backend/internal/api/middleware"
	"github.com/ecotrace/ecotrace-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doRequest issues an API request with an optional session token.
func doRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// anonymousToken fetches a fresh anonymous session token.
func anonymousToken(t *testing.T, ts *testutil.TestServer) string {
	t.Helper()

	resp := doRequest(t, http.MethodPost, ts.APIURL("/auth/token"), "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var tokenResp handlers.TokenResponse
	testutil.AssertJSONResponse(t, resp, &tokenResp)
	require.NotEmpty(t, tokenResp.Token)
	return tokenResp.Token
}

func TestAuthEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("anonymous token grants access to protected routes", func(t *testing.T) {
		token := anonymousToken(t, ts)

		resp := doRequest(t, http.MethodGet, ts.APIURL("/history/"), token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("validate reports valid for an issued token", func(t *testing.T) {
		token := anonymousToken(t, ts)

		resp := doRequest(t, http.MethodGet, ts.APIURL("/auth/validate"), token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var validateResp handlers.ValidateResponse
		testutil.AssertJSONResponse(t, resp, &validateResp)
		assert.True(t, validateResp.Valid)
		require.NotNil(t, validateResp.User)
		assert.True(t, validateResp.User.IsAnonymous)
	})

	t.Run("validate answers 200 with valid false for a bad token", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, ts.APIURL("/auth/validate"), "bogus-token", nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var validateResp handlers.ValidateResponse
		testutil.AssertJSONResponse(t, resp, &validateResp)
		assert.False(t, validateResp.Valid)
		assert.Nil(t, validateResp.User)
	})

	t.Run("register and login", func(t *testing.T) {
		registerResp := doRequest(t, http.MethodPost, ts.APIURL("/auth/register"), "", handlers.RegisterRequest{
			Email:    "Eve@Example.com",
			Password: "super-secret",
			Name:     "Eve",
		})
		testutil.AssertStatusCode(t, registerResp, http.StatusOK)

		var registered handlers.AuthResponse
		testutil.AssertJSONResponse(t, registerResp, &registered)
		assert.True(t, registered.Success)
		require.NotNil(t, registered.User)
		assert.Equal(t, "eve@example.com", registered.User.Email)

		loginResp := doRequest(t, http.MethodPost, ts.APIURL("/auth/login"), "", handlers.LoginRequest{
			Email:    "eve@example.com",
			Password: "super-secret",
		})
		testutil.AssertStatusCode(t, loginResp, http.StatusOK)

		var loggedIn handlers.AuthResponse
		testutil.AssertJSONResponse(t, loginResp, &loggedIn)
		assert.True(t, loggedIn.Success)
		assert.Equal(t, registered.User.ID, loggedIn.User.ID)
		assert.NotEqual(t, registered.Token, loggedIn.Token)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		first := doRequest(t, http.MethodPost, ts.APIURL("/auth/register"), "", handlers.RegisterRequest{
			Email:    "frank@example.com",
			Password: "super-secret",
		})
		testutil.AssertStatusCode(t, first, http.StatusOK)

		second := doRequest(t, http.MethodPost, ts.APIURL("/auth/register"), "", handlers.RegisterRequest{
			Email:    "frank@example.com",
			Password: "another-secret",
		})
		testutil.AssertErrorResponse(t, second, http.StatusConflict, "Email already registered")
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, ts.APIURL("/auth/register"), "", handlers.RegisterRequest{
			Email:    "grace@example.com",
			Password: "short",
		})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Password must be at least 6 characters")
	})

	t.Run("wrong password on login", func(t *testing.T) {
		doRequest(t, http.MethodPost, ts.APIURL("/auth/register"), "", handlers.RegisterRequest{
			Email:    "heidi@example.com",
			Password: "super-secret",
		})

		resp := doRequest(t, http.MethodPost, ts.APIURL("/auth/login"), "", handlers.LoginRequest{
			Email:    "heidi@example.com",
			Password: "not-the-password",
		})
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid email or password")
	})

	t.Run("protected route without token", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, ts.APIURL("/history/"), "", nil)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Missing token")
	})

	t.Run("protected route with forged token", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, ts.APIURL("/history/"), "forged.token.value", nil)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid token")
	})
}
