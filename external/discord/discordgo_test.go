package discord

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/dailynotes/internal/notify"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestPublisher(t *testing.T, rt roundTripFunc) *Publisher {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	s.Client = &http.Client{Transport: rt}
	s.MaxRestRetries = 0
	return &Publisher{session: s, channelID: "notes-1"}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestPublish_PostsFileToChannel(t *testing.T) {
	var gotFilename, gotBody string
	p := newTestPublisher(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/channels/notes-1/messages") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		if req.Header.Get("Authorization") != "Bot test-token" {
			t.Fatalf("unexpected auth header: %s", req.Header.Get("Authorization"))
		}
		reader, err := req.MultipartReader()
		if err != nil {
			t.Fatalf("failed to create multipart reader: %v", err)
		}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("failed to read part: %v", err)
			}
			if part.FileName() != "" {
				gotFilename = part.FileName()
				b, _ := io.ReadAll(part)
				gotBody = string(b)
			}
		}
		return jsonResponse(http.StatusOK, `{"id":"m1","channel_id":"notes-1"}`), nil
	})

	err := p.Publish(context.Background(), notify.File{Name: "notes.csv", Body: []byte("Version,Note\n"), Message: "Dailies notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilename != "notes.csv" || gotBody != "Version,Note\n" {
		t.Fatalf("unexpected attachment: %q %q", gotFilename, gotBody)
	}
}

func TestPublish_UnknownChannel(t *testing.T) {
	p := newTestPublisher(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"Unknown Channel","code":10003}`), nil
	})

	err := p.Publish(context.Background(), notify.File{Name: "notes.csv", Body: []byte("x")})
	if !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("unexpected: %q", got)
	}
}
