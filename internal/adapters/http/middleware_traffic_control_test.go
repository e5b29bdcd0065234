package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := newTestHandler(RouterConfig{
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})

	req1 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, req1)
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestBackpressureMiddlewareReturns503WhenSaturated(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})
	handler := backpressureMiddleware(slow, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
	}()

	// The first request is parked inside the handler holding the only slot,
	// so the second must be shed immediately.
	<-entered
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	close(release)
	<-done

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while saturated, got %d", res.Code)
	}
	if res.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 503 response")
	}
}
