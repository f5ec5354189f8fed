package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/api/meals/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/meals/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meals/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/meals/{id}", "418"))

	if after-before != 2 {
		t.Fatalf("expected 2 requests under one route label, got %v", after-before)
	}
}

func TestStatusWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	_, _ = w.Write([]byte("ok"))
	w.WriteHeader(http.StatusInternalServerError)

	if w.status != http.StatusOK {
		t.Fatalf("expected implicit 200 kept, got %d", w.status)
	}
}

func TestSagaAndCacheCounters(t *testing.T) {
	before := testutil.ToFloat64(sagaSteps.WithLabelValues("create_user", "identity", "ok"))
	Saga{}.ObserveStep("create_user", "identity", "ok")
	if got := testutil.ToFloat64(sagaSteps.WithLabelValues("create_user", "identity", "ok")); got-before != 1 {
		t.Fatalf("expected saga counter incremented, got %v", got-before)
	}

	cache := NewCache("test")
	cache.Hit()
	cache.Miss()
	cache.Miss()
	if got := testutil.ToFloat64(cacheRequests.WithLabelValues("test", "miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
}
