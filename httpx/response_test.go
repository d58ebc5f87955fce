package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/KOMKZ/go-auth-service/errcode"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.GET("/test", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestOkJson_RawPayload(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		OkJson(c, gin.H{"access_token": "abc", "exp": 1234})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"abc","exp":1234}`, w.Body.String())
}

func TestHandleError_LayeredError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		HandleError(c, errcode.ErrTokenExpired)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error_code":"TOKEN EXPIRED"}`, w.Body.String())
}

func TestHandleError_WrappedLayeredError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		HandleError(c, errcode.ErrTokenInvalid.Wrap(errors.New("signature mismatch")))
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error_code":"TOKEN INVALID"}`, w.Body.String())
}

func TestHandleError_UnknownErrorHidesDetails(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		HandleError(c, errors.New("pq: connection refused"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error_code":"INTERNAL SERVER ERROR"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHandleError_NilIsNoop(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		HandleError(c, nil)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoRouteHandler(t *testing.T) {
	engine := gin.New()
	engine.NoRoute(NoRouteHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error_code":"NOT FOUND"}`, w.Body.String())
}
