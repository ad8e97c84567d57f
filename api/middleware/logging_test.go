package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/meridianpress/meridian-backend/pkg/metrics"
)

func TestMetricsRecordsRoutePatternAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Metrics(httpMetrics))
	r.Get("/articles/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles/coastal-towns", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	metric := findRequestMetric(t, mfs, "/articles/{slug}")
	if !hasLabel(metric.GetLabel(), "status", "204") {
		t.Fatalf("expected status label 204, got %v", metric.GetLabel())
	}
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 request, got %f", got)
	}
}

func TestMetricsNilHandlerPassThrough(t *testing.T) {
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func findRequestMetric(t *testing.T, mfs []*dto.MetricFamily, route string) *dto.Metric {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabel(metric.GetLabel(), "route", route) {
				return metric
			}
		}
	}
	t.Fatalf("no http_requests_total sample for route %s", route)
	return nil
}

func hasLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
