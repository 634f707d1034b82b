package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/transcriber"
)

func newTestVexaClient(url string) *VexaClient {
	return NewVexaClient(VexaConfig{
		APIURL: url,
		APIKey: "vexa-key",
		Client: httpclient.Options{Timeout: 2 * time.Second, Attempts: 1},
	})
}

func TestParseMeetingURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://meet.google.com/abc-defg-hij", want: "abc-defg-hij"},
		{in: "https://meet.google.com/abc-defg-hij?authuser=0", want: "abc-defg-hij"},
		{in: "meet.google.com/abc-defg-hij", want: "abc-defg-hij"},
		{in: " abc-defg-hij ", want: "abc-defg-hij"},
		{in: "https://zoom.us/j/123", wantErr: true},
		{in: "https://meet.google.com/lookup/xyz", wantErr: true},
	}
	for _, tc := range cases {
		platform, id, err := ParseMeetingURL(tc.in)
		if tc.wantErr {
			if !errors.Is(err, transcriber.ErrInvalidMeetingURL) {
				t.Fatalf("%q: expected ErrInvalidMeetingURL, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if platform != "google_meet" || id != tc.want {
			t.Fatalf("%q: got %s/%s", tc.in, platform, id)
		}
	}
}

func TestVexaClient_StartBot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bots" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "vexa-key" {
			t.Fatalf("missing api key")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["platform"] != "google_meet" || body["native_meeting_id"] != "abc-defg-hij" || body["bot_name"] != "Notes" {
			t.Fatalf("unexpected body: %+v", body)
		}
		if _, ok := body["language"]; ok {
			t.Fatalf("auto language must not be sent: %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	id, err := newTestVexaClient(server.URL).StartBot(context.Background(), "https://meet.google.com/abc-defg-hij", "auto", "Notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "google_meet/abc-defg-hij" {
		t.Fatalf("unexpected meeting id: %s", id)
	}
}

func TestVexaClient_StopAndUpdateLanguage(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, r.Method+" "+r.URL.Path+" "+string(b))
	}))
	defer server.Close()

	c := newTestVexaClient(server.URL)
	if err := c.UpdateLanguage(context.Background(), "google_meet/abc-defg-hij", "ja"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.StopBot(context.Background(), "google_meet/abc-defg-hij"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 calls, got %v", got)
	}
	if got[0] != `PUT /bots/google_meet/abc-defg-hij/config {"language":"ja"}` {
		t.Fatalf("unexpected update call: %s", got[0])
	}
	if got[1] != "DELETE /bots/google_meet/abc-defg-hij " {
		t.Fatalf("unexpected stop call: %q", got[1])
	}

	if err := c.StopBot(context.Background(), "no-platform"); !errors.Is(err, transcriber.ErrInvalidMeetingURL) {
		t.Fatalf("expected invalid meeting id error, got %v", err)
	}
}

func TestVexaClient_GetSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcripts/google_meet/abc-defg-hij" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"segments": [
			{"id": "s1", "start": 0.5, "speaker": "Ann", "text": " hello "},
			{"start": 2.25, "absolute_start_time": "2026-01-05T10:00:02Z", "speaker": "", "text": "the edge is soft"},
			{"start": 4.75, "speaker": "Bob", "text": "agreed"}
		]}`)
	}))
	defer server.Close()

	segments, err := newTestVexaClient(server.URL).GetSegments(context.Background(), "google_meet/abc-defg-hij")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []transcriber.Segment{
		{ID: "s1", Speaker: "Ann", Text: "hello"},
		{ID: "2026-01-05T10:00:02Z", Speaker: transcriber.UnknownSpeaker, Text: "the edge is soft"},
		{ID: "4.75", Speaker: "Bob", Text: "agreed"},
	}
	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), segments)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Fatalf("segment %d: expected %+v, got %+v", i, want[i], segments[i])
		}
	}
}

func TestVexaClient_GetSegmentsWithoutTimestamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"segments": [
			{"speaker": "Ann", "text": "first"},
			{"speaker": "Ann", "text": "first"},
			{"speaker": "Bob", "text": "second"}
		]}`)
	}))
	defer server.Close()

	client := newTestVexaClient(server.URL)
	segments, err := client.GetSegments(context.Background(), "google_meet/abc-defg-hij")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]bool)
	for _, s := range segments {
		if s.ID == "" || seen[s.ID] {
			t.Fatalf("expected distinct non-empty ids, got %+v", segments)
		}
		seen[s.ID] = true
	}

	again, err := client.GetSegments(context.Background(), "google_meet/abc-defg-hij")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range segments {
		if again[i].ID != segments[i].ID {
			t.Fatalf("ids must be stable across polls: %q vs %q", segments[i].ID, again[i].ID)
		}
	}
}

func TestVexaClient_GetSegmentsNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestVexaClient(server.URL).GetSegments(context.Background(), "google_meet/abc-defg-hij")
	if !httpclient.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}
