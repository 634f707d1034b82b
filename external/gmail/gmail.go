package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/foxseedlab/dailynotes/internal/notify"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const meUserID = "me"

// Sender sends HTML email through the Gmail API as the authorized user.
type Sender struct {
	service *gmailapi.Service
	from    string
}

func NewSender(service *gmailapi.Service, from string) *Sender {
	return &Sender{service: service, from: from}
}

// NewSenderFromFiles builds a Sender from an OAuth client secret file and a
// previously authorized token file.
func NewSenderFromFiles(ctx context.Context, from, credentialsFile, tokenFile string) (*Sender, error) {
	secret, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(secret, gmailapi.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail client secret: %w", err)
	}
	tok, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	service, err := gmailapi.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewSender(service, from), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gmail token: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode gmail token: %w", err)
	}
	return tok, nil
}

func (s *Sender) SendEmail(ctx context.Context, email notify.Email) error {
	raw := base64.URLEncoding.EncodeToString(buildMessage(s.from, email))
	_, err := s.service.Users.Messages.Send(meUserID, &gmailapi.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

func buildMessage(from string, email notify.Email) []byte {
	headers := []string{
		"To: " + email.To,
		"From: " + from,
		"Subject: " + mime.QEncoding.Encode("utf-8", email.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + email.HTML)
}
