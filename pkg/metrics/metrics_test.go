package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/v1/product/product-photo/{pid}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/v1/product/product-photo/{pid}", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/product/product-photo/abc", nil))
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/v1/product/product-photo/{pid}", "404"))

	assert.Equal(t, before+1, after)
}

func TestHandlerExposesCheckoutMetrics(t *testing.T) {
	metrics.UnrecordedOrders.Add(0)
	metrics.CheckoutTotal.WithLabelValues("success").Add(0)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "storefront_checkout_unrecorded_orders_total"))
	assert.True(t, strings.Contains(body, "storefront_checkout_attempts_total"))
}
