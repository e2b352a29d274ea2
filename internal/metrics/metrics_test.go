package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/pages/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/pages/:id", "200"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/abc", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/pages/:id", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveBackend(t *testing.T) {
	okBefore := testutil.ToFloat64(BackendRequests.WithLabelValues("cuisines", "ok"))
	errBefore := testutil.ToFloat64(BackendRequests.WithLabelValues("cuisines", "error"))

	ObserveBackend("cuisines", time.Now(), nil)
	ObserveBackend("cuisines", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(BackendRequests.WithLabelValues("cuisines", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(BackendRequests.WithLabelValues("cuisines", "error")))
}
