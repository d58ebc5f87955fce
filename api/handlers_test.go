package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KOMKZ/go-auth-service/blacklist"
	"github.com/KOMKZ/go-auth-service/directory"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/oauth"
	"github.com/KOMKZ/go-auth-service/session"
	"github.com/KOMKZ/go-auth-service/token"
	"github.com/KOMKZ/go-auth-service/tokencache"
	"github.com/KOMKZ/go-auth-service/tokenstore"
)

// fakeDirectory 单用户内存目录
type fakeDirectory struct {
	user *directory.User
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) (*directory.User, error) {
	if d.user != nil && d.user.Email == email {
		return d.user, nil
	}
	return nil, directory.ErrUserNotFound
}

func (d *fakeDirectory) FindByID(_ context.Context, id uint) (*directory.User, error) {
	if d.user != nil && d.user.ID == id {
		return d.user, nil
	}
	return nil, directory.ErrUserNotFound
}

func (d *fakeDirectory) FindByGoogleID(_ context.Context, googleID string) (*directory.User, error) {
	if d.user != nil && d.user.GoogleID == googleID {
		return d.user, nil
	}
	return nil, directory.ErrUserNotFound
}

func (d *fakeDirectory) Create(_ context.Context, input *directory.CreateUserInput) (*directory.User, error) {
	d.user = &directory.User{
		ID:             99,
		Email:          input.Email,
		EmailConfirmed: input.EmailConfirmed,
		GoogleID:       input.GoogleID,
		AccessLevel:    "member",
	}
	return d.user, nil
}

func (d *fakeDirectory) Update(_ context.Context, id uint, input *directory.UpdateUserInput) (*directory.User, error) {
	if d.user == nil || d.user.ID != id {
		return nil, directory.ErrUserNotFound
	}
	if input.GoogleID != nil {
		d.user.GoogleID = *input.GoogleID
	}
	return d.user, nil
}

type fakeGoogle struct {
	profile *oauth.Profile
}

func (g *fakeGoogle) ConsentURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) Exchange(_ context.Context, _ string) (*oauth.Profile, error) {
	return g.profile, nil
}

type testServer struct {
	engine    *gin.Engine
	directory *fakeDirectory
	google    *fakeGoogle
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewCtxZapLogger("api-test")

	codec, err := token.NewCodec(&token.Config{Secret: "api-test-secret"}, log)
	require.NoError(t, err)

	cacheSrv := miniredis.RunT(t)
	cacheClient := redis.NewClient(&redis.Options{Addr: cacheSrv.Addr()})
	t.Cleanup(func() { _ = cacheClient.Close() })

	blSrv := miniredis.RunT(t)
	blClient := redis.NewClient(&redis.Options{Addr: blSrv.Addr()})
	t.Cleanup(func() { _ = blClient.Close() })

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	store := tokenstore.NewStore(db, log)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() {
		db.Exec("DELETE FROM tokens")
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	dir := &fakeDirectory{user: &directory.User{
		ID:             1,
		Email:          "user@example.com",
		Password:       string(hash),
		EmailConfirmed: true,
		AccessLevel:    "member",
	}}
	google := &fakeGoogle{}

	cache := tokencache.NewCache(cacheClient, &tokencache.Config{}, log)
	bl := blacklist.NewBlacklist(blClient, store, &blacklist.Config{}, log)
	sessions := session.NewManager(codec, cache, bl, store, dir, google, log)

	engine := gin.New()
	RegisterRoutes(engine, NewHandlers(sessions, &CookieConfig{}, log))

	return &testServer{engine: engine, directory: dir, google: google}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signIn(t *testing.T) (accessToken string, refreshCookie *http.Cookie) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "s3cret"})
	req := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie)
	return resp.AccessToken, refreshCookie
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ErrorCode
}

func TestSignInEndpoint(t *testing.T) {
	srv := newTestServer(t)

	accessToken, refreshCookie := srv.signIn(t)
	assert.NotEmpty(t, accessToken)
	assert.True(t, refreshCookie.HttpOnly)
	assert.Equal(t, "/api/authentication", refreshCookie.Path)
	assert.True(t, refreshCookie.Expires.After(time.Now().Add(13*24*time.Hour)))
}

func TestSignInEndpoint_MissingCredentials(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "user@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING EMAIL OR PASSWORD", errorCode(t, w))
}

func TestSignInEndpoint_BadCredentials(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "EMAIL/PASSWORD COMBINATION NOT RECOGNIZED", errorCode(t, w))
}

func TestAuthorizeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	accessToken, refreshCookie := srv.signIn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(refreshCookie)
	w := srv.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp AuthorizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, token.AccessTypeUser, resp.AccessType)
	assert.Equal(t, uint(1), resp.AuthenticatedUser.ID)
}

func TestAuthorizeEndpoint_MissingBearer(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
	w := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING AUTHORIZATION BEARER TOKEN", errorCode(t, w))
}

func TestAuthorizeEndpoint_GarbageToken(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
	req.Header.Set("Authorization", "Bearer junk")
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN INVALID", errorCode(t, w))
}

func TestAuthorizeEndpoint_InvalidTokenClearsCookie(t *testing.T) {
	srv := newTestServer(t)
	_, refreshCookie := srv.signIn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	req.AddCookie(refreshCookie)
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN INVALID", errorCode(t, w))

	var cleared *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))
}

func TestAuthorizeEndpoint_RecoversRefreshCookie(t *testing.T) {
	srv := newTestServer(t)
	accessToken, refreshCookie := srv.signIn(t)

	// 不带刷新 Cookie 请求
	req := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := srv.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var recovered *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			recovered = cookie
		}
	}
	require.NotNil(t, recovered)
	assert.Equal(t, refreshCookie.Value, recovered.Value)
}

func TestAuthorizeEndpoint_BlacklistedClearsCookie(t *testing.T) {
	srv := newTestServer(t)
	accessToken, refreshCookie := srv.signIn(t)

	signOut := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-out", nil)
	signOut.Header.Set("Authorization", "Bearer "+accessToken)
	require.Equal(t, http.StatusOK, srv.do(signOut).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(refreshCookie)
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN INVALID", errorCode(t, w))

	var cleared *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))
}

func TestRefreshEndpoint(t *testing.T) {
	srv := newTestServer(t)
	accessToken, refreshCookie := srv.signIn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(refreshCookie)
	w := srv.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, accessToken, resp.AccessToken)
	assert.Equal(t, token.AccessTypeUser, resp.AccessType)
	assert.Equal(t, uint(1), resp.AuthenticatedUser.ID)

	var newCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			newCookie = cookie
		}
	}
	require.NotNil(t, newCookie)
	assert.NotEqual(t, refreshCookie.Value, newCookie.Value)
}

func TestRefreshEndpoint_MissingCookie(t *testing.T) {
	srv := newTestServer(t)
	accessToken, _ := srv.signIn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "REFRESH TOKEN INVALID", errorCode(t, w))
}

func TestRefreshEndpoint_MismatchedPairClearsCookie(t *testing.T) {
	srv := newTestServer(t)
	firstToken, _ := srv.signIn(t)
	_, secondCookie := srv.signIn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+firstToken)
	req.AddCookie(secondCookie)
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID TOKEN PAIRING", errorCode(t, w))

	var cleared *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestRefreshEndpoint_BlacklistedClearsCookie(t *testing.T) {
	srv := newTestServer(t)
	accessToken, refreshCookie := srv.signIn(t)

	signOut := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-out", nil)
	signOut.Header.Set("Authorization", "Bearer "+accessToken)
	require.Equal(t, http.StatusOK, srv.do(signOut).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(refreshCookie)
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN INVALID", errorCode(t, w))

	var cleared *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "_authapi_ref" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestSignOutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	accessToken, _ := srv.signIn(t)

	req := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-out", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := srv.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SUCCESS", w.Body.String())

	// 重复登出被拒
	again := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-out", nil)
	again.Header.Set("Authorization", "Bearer "+accessToken)
	w = srv.do(again)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN INVALID", errorCode(t, w))
}

func TestSignOutAllEndpoint(t *testing.T) {
	srv := newTestServer(t)
	firstToken, _ := srv.signIn(t)
	secondToken, _ := srv.signIn(t)

	req := httptest.NewRequest(http.MethodPost, "/api/authentication/sign-out-all-devices", nil)
	req.Header.Set("Authorization", "Bearer "+firstToken)
	w := srv.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "SUCCESS", w.Body.String())

	for _, accessToken := range []string{firstToken, secondToken} {
		check := httptest.NewRequest(http.MethodGet, "/api/authentication/authorize", nil)
		check.Header.Set("Authorization", "Bearer "+accessToken)
		assert.Equal(t, http.StatusUnauthorized, srv.do(check).Code)
	}
}

func TestGoogleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.google.profile = &oauth.Profile{ID: "g-1", Email: "new@example.com", VerifiedEmail: true}

	// 跳转到同意页并下发 state Cookie
	req := httptest.NewRequest(http.MethodGet, "/api/authentication/sign-in/google", nil)
	w := srv.do(req)
	require.Equal(t, http.StatusFound, w.Code)

	var stateCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == oauthStateCookie {
			stateCookie = cookie
		}
	}
	require.NotNil(t, stateCookie)
	assert.Contains(t, w.Header().Get("Location"), "state="+stateCookie.Value)

	// 回调换取会话
	callback := httptest.NewRequest(http.MethodGet,
		"/api/authentication/callback/google?code=auth-code&state="+stateCookie.Value, nil)
	callback.AddCookie(stateCookie)
	w = srv.do(callback)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestGoogleRedirect_MissingCode(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authentication/callback/google", nil)
	w := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING AUTHORIZATION CODE", errorCode(t, w))
}

func TestGoogleRedirect_StateMismatch(t *testing.T) {
	srv := newTestServer(t)
	srv.google.profile = &oauth.Profile{ID: "g-1", Email: "new@example.com", VerifiedEmail: true}

	req := httptest.NewRequest(http.MethodGet,
		"/api/authentication/callback/google?code=auth-code&state=forged", nil)
	w := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN INVALID", errorCode(t, w))
}
