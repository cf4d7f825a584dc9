package spell

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/docedit/internal/doctree"
)

func newService(t *testing.T, known map[string]bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/check" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req CheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(CheckResponse{Correct: known[strings.ToLower(req.Text)]})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientCheck(t *testing.T) {
	srv := newService(t, map[string]bool{"hello": true})
	c := NewClient(srv.URL, "secret", nil)
	defer c.Close()

	res, err := c.Check(context.Background(), "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Error("expected hello to be correct")
	}
	res, err = c.Check(context.Background(), "helo")
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Error("expected helo to be misspelled")
	}
}

func TestClientStatusError(t *testing.T) {
	srv := newService(t, nil)
	c := NewClient(srv.URL, "wrong", nil)
	_, err := c.Check(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status 401 error, got %v", err)
	}
}

func TestCheckerFailsOpen(t *testing.T) {
	srv := newService(t, nil)
	c := NewClient(srv.URL, "wrong", nil)
	var sc doctree.SpellChecker = doctree.SpellCheckerFunc(c.Checker(context.Background()))
	if !sc.Correct("anything") {
		t.Error("expected service failure to count as correct")
	}

	ok := NewClient(newService(t, map[string]bool{}).URL, "secret", nil)
	if ok.Checker(context.Background())("nonsense") {
		t.Error("expected unknown word to be reported")
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(CheckResponse{Correct: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	c.retryBase = time.Millisecond
	res, err := c.Check(context.Background(), "word")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct || calls.Load() != 2 {
		t.Errorf("expected success on second call, got correct=%v calls=%d", res.Correct, calls.Load())
	}
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	c.retryBase = time.Millisecond
	_, err := c.Check(context.Background(), "word")
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if got := calls.Load(); got != MaxRetries+1 {
		t.Errorf("expected %d calls, got %d", MaxRetries+1, got)
	}
}

func TestBackoff(t *testing.T) {
	for attempt := range 10 {
		d := Backoff(attempt, 100*time.Millisecond)
		base := min(100*time.Millisecond<<uint(attempt), 5*time.Second)
		if d < base || d > base+base/2 {
			t.Errorf("attempt %d: expected backoff in [%v,%v], got %v", attempt, base, base+base/2, d)
		}
	}
}
