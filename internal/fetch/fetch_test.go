package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/fetch"
	"github.com/acorn-hc/acorn-sports/internal/fetch/fetchtest"
	"github.com/acorn-hc/acorn-sports/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantError  bool
		wantStatus int
	}{
		{
			name:       "successful fetch",
			body:       "2025-26 Baseball Schedule",
			statusCode: http.StatusOK,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			wantError:  true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantError:  true,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "empty body",
			statusCode: http.StatusOK,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "acorn-sports") {
					t.Errorf("User-Agent = %q, should contain 'acorn-sports'", ua)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := fetch.New(fetch.Options{RetryMax: 0})
			body, err := c.Fetch(context.Background(), server.URL)

			if !tt.wantError {
				if err != nil {
					t.Fatalf("Fetch() unexpected error: %v", err)
				}
				if body != tt.body {
					t.Errorf("Fetch() = %q, want %q", body, tt.body)
				}
				return
			}

			if err == nil {
				t.Fatal("Fetch() expected error, got nil")
			}
			if tt.wantStatus != 0 {
				var se *fetch.StatusError
				if !errors.As(err, &se) {
					t.Fatalf("Fetch() error = %v, want *fetch.StatusError", err)
				}
				if se.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantStatus)
				}
			} else if !errors.Is(err, fetch.ErrEmptyBody) {
				t.Errorf("Fetch() error = %v, want ErrEmptyBody", err)
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := fetch.New(fetch.Options{RetryMax: 1})
	body, err := c.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if body != "ok" {
		t.Errorf("Fetch() = %q, want ok", body)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	c := fetch.New(fetch.Options{Timeout: 20 * time.Millisecond, RetryMax: 0})
	if _, err := c.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Fetch() expected timeout error")
	}
}

func TestClient_RecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	m := metrics.New(prometheus.NewRegistry())
	c := fetch.New(fetch.Options{Metrics: m})
	c.Fetch(context.Background(), server.URL)

	if got := testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("200")); got != 1 {
		t.Errorf("upstream 200 = %v, want 1", got)
	}
}

func TestCachingFetcher(t *testing.T) {
	fake := fetchtest.New().
		Body("http://x/page", "<html>schedule</html>").
		Status("http://x/down", http.StatusServiceUnavailable)
	c := cache.New[string]("pages", cache.NewMemoryStore[string](), nil)
	f := fetch.NewCachingFetcher(fake, c, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, err := f.Fetch(ctx, "http://x/page")
		if err != nil || body != "<html>schedule</html>" {
			t.Fatalf("Fetch() = %q, %v", body, err)
		}
	}
	if got := fake.Calls("http://x/page"); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(ctx, "http://x/down"); err == nil {
			t.Error("Fetch(down) expected error")
		}
	}
	if got := fake.Calls("http://x/down"); got != 2 {
		t.Errorf("failed fetches should not be cached: calls = %d, want 2", got)
	}
}
