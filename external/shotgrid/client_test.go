package shotgrid

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foxseedlab/dailynotes/external/httpclient"
)

type fakeShotGrid struct {
	t          *testing.T
	tokenCalls int32
	searches   map[string]string
	lastBody   map[string]searchRequest
	lastQuery  map[string]string
}

func newFakeShotGrid(t *testing.T) *fakeShotGrid {
	return &fakeShotGrid{
		t:         t,
		searches:  make(map[string]string),
		lastBody:  make(map[string]searchRequest),
		lastQuery: make(map[string]string),
	}
}

func (f *fakeShotGrid) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/v1/auth/access_token" {
		atomic.AddInt32(&f.tokenCalls, 1)
		if err := r.ParseForm(); err != nil {
			f.t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("client_id") != "dailies" || r.PostForm.Get("client_secret") != "key" {
			f.t.Fatalf("unexpected auth form: %v", r.PostForm)
		}
		_, _ = io.WriteString(w, `{"access_token":"tok-1","token_type":"Bearer","expires_in":600}`)
		return
	}
	if r.Header.Get("Authorization") != "Bearer tok-1" {
		f.t.Fatalf("missing bearer token on %s", r.URL.Path)
	}
	if r.Header.Get("Content-Type") != arrayFilterType {
		f.t.Fatalf("unexpected content type: %s", r.Header.Get("Content-Type"))
	}
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		f.t.Fatalf("failed to decode search: %v", err)
	}
	f.lastBody[r.URL.Path] = body
	f.lastQuery[r.URL.Path] = r.URL.RawQuery
	resp, ok := f.searches[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, _ = io.WriteString(w, resp)
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:        url,
		ScriptName: "dailies",
		APIKey:     "key",
		Client:     httpclient.Options{Timeout: 2 * time.Second, Attempts: 1},
	})
}

func TestActiveProjects_CachesToken(t *testing.T) {
	fake := newFakeShotGrid(t)
	fake.searches["/api/v1/entity/projects/_search"] = `{"data":[
		{"id":70,"type":"Project","attributes":{"code":"ABC","name":"Alpha"}},
		{"id":71,"type":"Project","attributes":{"code":"XYZ","name":"Xylo"}}
	]}`
	server := httptest.NewServer(fake)
	defer server.Close()

	c := newTestClient(server.URL)
	for range 2 {
		projects, err := c.ActiveProjects(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(projects) != 2 || projects[0].ID != 70 || projects[0].Code != "ABC" || projects[1].Name != "Xylo" {
			t.Fatalf("unexpected projects: %+v", projects)
		}
	}
	if atomic.LoadInt32(&fake.tokenCalls) != 1 {
		t.Fatalf("expected one token request, got %d", fake.tokenCalls)
	}
	filter := fake.lastBody["/api/v1/entity/projects/_search"].Filters
	if len(filter) != 1 || filter[0][0] != "sg_status" || filter[0][2] != "Active" {
		t.Fatalf("unexpected filters: %v", filter)
	}
}

func TestActiveProjects_RefreshesExpiredToken(t *testing.T) {
	fake := newFakeShotGrid(t)
	fake.searches["/api/v1/entity/projects/_search"] = `{"data":[]}`
	server := httptest.NewServer(fake)
	defer server.Close()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	c := newTestClient(server.URL)
	c.now = func() time.Time { return now }

	_, _ = c.ActiveProjects(context.Background())
	now = now.Add(10 * time.Minute)
	_, _ = c.ActiveProjects(context.Background())

	if atomic.LoadInt32(&fake.tokenCalls) != 2 {
		t.Fatalf("expected token refresh, got %d token calls", fake.tokenCalls)
	}
}

func TestLatestPlaylists(t *testing.T) {
	fake := newFakeShotGrid(t)
	fake.searches["/api/v1/entity/playlists/_search"] = `{"data":[
		{"id":5,"attributes":{"code":"Dailies 0302","created_at":"2026-03-02T09:00:00Z"}}
	]}`
	server := httptest.NewServer(fake)
	defer server.Close()

	playlists, err := newTestClient(server.URL).LatestPlaylists(context.Background(), 70, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(playlists) != 1 || playlists[0].ID != 5 || playlists[0].Code != "Dailies 0302" {
		t.Fatalf("unexpected playlists: %+v", playlists)
	}
	if q := fake.lastQuery["/api/v1/entity/playlists/_search"]; q != "page%5Bsize%5D=20&sort=-created_at" {
		t.Fatalf("unexpected query: %s", q)
	}
}

func TestPlaylistItems(t *testing.T) {
	fake := newFakeShotGrid(t)
	fake.searches["/api/v1/entity/versions/_search"] = `{"data":[
		{"id":1,"attributes":{"code":"sh010_comp_v003"},"relationships":{"entity":{"data":{"type":"Shot","id":9,"name":"sh010"}}}},
		{"id":2,"attributes":{"code":"edit_v001"},"relationships":{"entity":{"data":null}}}
	]}`
	server := httptest.NewServer(fake)
	defer server.Close()

	items, err := newTestClient(server.URL).PlaylistItems(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0] != "sh010/sh010_comp_v003" || items[1] != "edit_v001" {
		t.Fatalf("unexpected items: %v", items)
	}
}
