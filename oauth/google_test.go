package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/KOMKZ/go-auth-service/logger"
)

func newTestProvider(t *testing.T, userInfoURL string) *GoogleProvider {
	t.Helper()
	provider, err := NewGoogleProvider(&Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/api/authentication/google/redirect",
		UserInfoURL:  userInfoURL,
	}, logger.NewCtxZapLogger("oauth-test"))
	require.NoError(t, err)
	return provider
}

func TestNewGoogleProvider_Validation(t *testing.T) {
	_, err := NewGoogleProvider(&Config{}, logger.NewCtxZapLogger("oauth-test"))
	assert.Error(t, err)

	_, err = NewGoogleProvider(&Config{ClientID: "id"}, logger.NewCtxZapLogger("oauth-test"))
	assert.Error(t, err)
}

func TestGoogleProvider_ConsentURL(t *testing.T) {
	provider := newTestProvider(t, "")

	consentURL := provider.ConsentURL("state-123")
	parsed, err := url.Parse(consentURL)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "state-123", query.Get("state"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Contains(t, query.Get("scope"), "email")
	assert.Equal(t, "http://localhost/api/authentication/google/redirect", query.Get("redirect_uri"))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	userInfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Profile{
			ID:            "g-42",
			Email:         "user@example.com",
			VerifiedEmail: true,
			Name:          "Ada",
		})
	}))
	t.Cleanup(userInfo.Close)

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.FormValue("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "at-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(tokenSrv.Close)

	provider := newTestProvider(t, userInfo.URL)
	provider.SetEndpoint(oauth2.Endpoint{
		AuthURL:  tokenSrv.URL + "/auth",
		TokenURL: tokenSrv.URL + "/token",
	})

	profile, err := provider.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "g-42", profile.ID)
	assert.Equal(t, "user@example.com", profile.Email)
	assert.True(t, profile.VerifiedEmail)
}

func TestGoogleProvider_ExchangeFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(tokenSrv.Close)

	provider := newTestProvider(t, "")
	provider.SetEndpoint(oauth2.Endpoint{
		AuthURL:  tokenSrv.URL + "/auth",
		TokenURL: tokenSrv.URL + "/token",
	})

	_, err := provider.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestGoogleProvider_UserInfoFailure(t *testing.T) {
	userInfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(userInfo.Close)

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "at-1",
			"token_type":   "Bearer",
		})
	}))
	t.Cleanup(tokenSrv.Close)

	provider := newTestProvider(t, userInfo.URL)
	provider.SetEndpoint(oauth2.Endpoint{
		AuthURL:  tokenSrv.URL + "/auth",
		TokenURL: tokenSrv.URL + "/token",
	})

	_, err := provider.Exchange(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrUserInfoFailed)
}
