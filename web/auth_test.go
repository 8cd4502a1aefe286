package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(auth *Auth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", auth.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c)})
	})
	return router
}

func TestAuth_TokenRoundTrip(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken(42, "a@b.com")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestAuth_Middleware_AllowsValidToken(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	router := newAuthRouter(auth)

	token, err := auth.GenerateToken(42, "a@b.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuth_Middleware_RejectsMissingHeader(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	router := newAuthRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_Middleware_RejectsForgedToken(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	other := NewAuth("different-secret", time.Hour)
	router := newAuthRouter(auth)

	token, err := other.GenerateToken(42, "a@b.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_Middleware_RejectsExpiredToken(t *testing.T) {
	auth := NewAuth("test-secret", time.Nanosecond)
	router := newAuthRouter(auth)

	token, err := auth.GenerateToken(42, "a@b.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
