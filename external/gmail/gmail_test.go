package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foxseedlab/dailynotes/internal/notify"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func TestSendEmail(t *testing.T) {
	var raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/gmail/v1/users/me/messages/send" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var msg struct {
			Raw string `json:"raw"`
		}
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		raw = msg.Raw
		_, _ = io.WriteString(w, `{"id": "sent-1"}`)
	}))
	defer server.Close()

	service, err := gmailapi.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	sender := NewSender(service, "dailies@example.com")
	err = sender.SendEmail(context.Background(), notify.Email{To: "lead@example.com", Subject: notify.NotesSubject, HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw message is not base64url: %v", err)
	}
	for _, want := range []string{
		"To: lead@example.com\r\n",
		"From: dailies@example.com\r\n",
		"Subject: Dailies Shot Notes\r\n",
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n<p>hi</p>",
	} {
		if !strings.Contains(string(decoded), want) {
			t.Fatalf("%q not found in message: %s", want, decoded)
		}
	}
}

func TestNewSenderFromFiles_MissingToken(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "client_secret.json")
	body := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(secret, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}

	_, err := NewSenderFromFiles(context.Background(), "me@example.com", secret, filepath.Join(dir, "token.json"))
	if err == nil || !strings.Contains(err.Error(), "open gmail token") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}
