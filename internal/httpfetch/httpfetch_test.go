package httpfetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"value": 42})
	}))
	defer srv.Close()

	c := New(5*time.Second, 1)
	var out map[string]int
	if err := c.Get(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out["value"] != 42 {
		t.Fatalf("got %v", out)
	}
}

func TestDoWithRetryEventuallySucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"ok": 1})
	}))
	defer srv.Close()

	c := New(5*time.Second, 5)
	var out map[string]int
	if err := c.Get(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoWithRetryExhaustsBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(5*time.Second, 2)
	var out map[string]int
	if err := c.Get(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestPostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"echo": body["key"]})
	}))
	defer srv.Close()

	c := New(5*time.Second, 1)
	var out map[string]string
	if err := c.PostJSON(context.Background(), srv.URL, map[string]string{"key": "value"}, &out); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if out["echo"] != "value" {
		t.Fatalf("got %v", out)
	}
}
