package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"innings-explorer/internal/metrics"
)

func TestInstrument_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/v1/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/v1/things/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0.001)
}

func TestInstrument_ImplicitOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/plain", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	counter := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/plain", "200")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}
