package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string, attempts int) *Client {
	return New(Options{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		Attempts:   attempts,
		RetryDelay: time.Millisecond,
		Header:     http.Header{"X-Api-Key": []string{"secret"}},
	})
}

func TestDoJSON_SendsBodyAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bots" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("verbose") != "1" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Fatalf("missing api key header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if in["platform"] != "google_meet" {
			t.Fatalf("unexpected body: %+v", in)
		}
		_, _ = io.WriteString(w, `{"id": 7}`)
	}))
	defer server.Close()

	var out struct {
		ID int `json:"id"`
	}
	err := newTestClient(server.URL+"/", 1).DoJSON(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/bots",
		Query:  url.Values{"verbose": []string{"1"}},
		JSON:   map[string]string{"platform": "google_meet"},
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != 7 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()

	got, err := newTestClient(server.URL, 3).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "ok" || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("unexpected result: body=%q calls=%d", got, calls)
	}
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 2).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if !IsStatus(err, http.StatusServiceUnavailable) {
		t.Fatalf("expected 503 status error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"missing"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 status error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestDo_RawBodyKeepsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != "a=1" {
			t.Fatalf("unexpected body: %q", b)
		}
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 1).Do(context.Background(), Request{
		Method:      http.MethodPost,
		Path:        "/form",
		Body:        []byte("a=1"),
		ContentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
