package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/notify"
)

func TestPublish_Success(t *testing.T) {
	var gotFilename, gotBody, gotMessage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		mediaType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(mediaType, "multipart/form-data") {
			t.Fatalf("unexpected content type: %s", mediaType)
		}

		reader, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("failed to create multipart reader: %v", err)
		}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("failed to read multipart part: %v", err)
			}
			content, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read part body: %v", err)
			}
			switch part.FormName() {
			case "file":
				gotFilename = part.FileName()
				gotBody = string(content)
			case "message":
				gotMessage = string(content)
			default:
				t.Fatalf("unexpected form name: %s", part.FormName())
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL, httpclient.Options{Attempts: 1})
	err := sender.Publish(context.Background(), notify.File{Name: "notes.csv", Body: []byte("Version,Note\n"), Message: "dailies"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotFilename != "notes.csv" {
		t.Fatalf("unexpected filename: %s", gotFilename)
	}
	if gotBody != "Version,Note\n" {
		t.Fatalf("unexpected body: %s", gotBody)
	}
	if gotMessage != "dailies" {
		t.Fatalf("unexpected message: %s", gotMessage)
	}
}

func TestPublish_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL, httpclient.Options{Attempts: 1})
	if err := sender.Publish(context.Background(), notify.File{Name: "notes.csv", Body: []byte("x")}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
