package v1

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/owhenrique/library/internal/service/lending"
    "github.com/owhenrique/library/internal/storage/memory"
)

func TestRateLimit_PerClient(t *testing.T) {
    store := memory.New()
    cfg := RateLimitConfig{RequestsPerMinute: 3, Burst: 3}
    h := New(store, lending.DefaultPolicy(), AuthConfig{Secret: "test-secret", TokenTTL: time.Hour}, cfg, testLogger()).Handler()

    hit := func(addr string) *httptest.ResponseRecorder {
        req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
        req.RemoteAddr = addr
        rec := httptest.NewRecorder()
        h.ServeHTTP(rec, req)
        return rec
    }

    for i := 0; i < 3; i++ {
        if rec := hit("198.51.100.7:4242"); rec.Code != http.StatusOK {
            t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
        }
    }
    rec := hit("198.51.100.7:4242")
    if rec.Code != http.StatusTooManyRequests {
        t.Fatalf("expected 429, got %d", rec.Code)
    }
    if er := decodeErr(t, rec); er.Code != "rate_limit_exceeded" {
        t.Fatalf("unexpected code %q", er.Code)
    }

    // clients are keyed by host, so a new source port shares the bucket
    if rec := hit("198.51.100.7:9999"); rec.Code != http.StatusTooManyRequests {
        t.Fatalf("expected 429 for throttled host, got %d", rec.Code)
    }

    // a different host gets its own bucket
    if rec := hit("203.0.113.9:4242"); rec.Code != http.StatusOK {
        t.Fatalf("other client: expected 200, got %d", rec.Code)
    }
}
