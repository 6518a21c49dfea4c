// Package fetchtest provides an in-memory Fetcher for tests.
package fetchtest

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/acorn-hc/acorn-sports/internal/fetch"
)

// ErrUnreachable is returned for URLs with no registered response
var ErrUnreachable = errors.New("fetchtest: unreachable")

type response struct {
	body   string
	status int
	err    error
}

// Fake serves canned bodies by exact URL and counts every call
type Fake struct {
	mu        sync.Mutex
	responses map[string]response
	calls     map[string]int
	total     int
}

// New creates an empty Fake; every URL is unreachable until registered
func New() *Fake {
	return &Fake{
		responses: make(map[string]response),
		calls:     make(map[string]int),
	}
}

// Body registers a 200 response
func (f *Fake) Body(url, body string) *Fake {
	return f.set(url, response{body: body, status: http.StatusOK})
}

// Status registers a non-2xx response
func (f *Fake) Status(url string, status int) *Fake {
	return f.set(url, response{status: status})
}

// Fail registers a transport error
func (f *Fake) Fail(url string, err error) *Fake {
	return f.set(url, response{err: err})
}

func (f *Fake) set(url string, r response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = r
	return f
}

// Fetch implements fetch.Fetcher
func (f *Fake) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls[url]++
	f.total++
	r, ok := f.responses[url]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUnreachable
	}
	if r.err != nil {
		return "", r.err
	}
	if r.status < 200 || r.status > 299 {
		return "", &fetch.StatusError{URL: url, StatusCode: r.status}
	}
	return r.body, nil
}

// Calls returns how many times url was fetched
func (f *Fake) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// Total returns the number of fetches across all URLs
func (f *Fake) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// Reset clears call counters but keeps registered responses
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
	f.total = 0
}
