package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSharerRouter(captured *uuid.UUID, found *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SharerIdentity())
	r.GET("/probe", func(c *gin.Context) {
		id, ok := GetSharerID(c)
		*captured = id
		*found = ok
		c.Status(http.StatusOK)
	})
	return r
}

func TestSharerIdentityParsesHeader(t *testing.T) {
	var captured uuid.UUID
	var found bool
	r := newSharerRouter(&captured, &found)

	userID := uuid.New()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(SharerIDHeader, userID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, found)
	assert.Equal(t, userID, captured)
}

func TestSharerIdentityAbsentHeader(t *testing.T) {
	var captured uuid.UUID
	var found bool
	r := newSharerRouter(&captured, &found)

	// Identity-free routes still work; the handler decides whether to reject.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, found)
	assert.Equal(t, uuid.Nil, captured)
}

func TestSharerIdentityRejectsMalformedHeader(t *testing.T) {
	var captured uuid.UUID
	var found bool
	r := newSharerRouter(&captured, &found)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set(SharerIDHeader, "not-a-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid "+SharerIDHeader)
}

func TestRequestIDPropagation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	// A missing inbound id gets minted.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))
	minted := w.Header().Get("X-Request-Id")
	_, err := uuid.Parse(minted)
	require.NoError(t, err)
}
