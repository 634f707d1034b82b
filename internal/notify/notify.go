// Package notify delivers the review notes outside the app: an HTML email
// and file uploads to chat channels or webhooks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/foxseedlab/dailynotes/internal/repository"
)

const (
	NotesSubject        = "Dailies Shot Notes"
	backgroundSendLimit = 2 * time.Minute
)

var (
	ErrNotConfigured  = errors.New("notes delivery is not configured")
	ErrInvalidAddress = errors.New("invalid email address")
)

// NoteRow is one line of the notes table.
type NoteRow struct {
	Shot          string `json:"shot"`
	Notes         string `json:"notes"`
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
}

type Email struct {
	To      string
	Subject string
	HTML    string
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) error
}

type File struct {
	Name    string
	Body    []byte
	Message string
}

// Publisher uploads a file to one destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, file File) error
}

func RowsFromVersions(versions []repository.Version) []NoteRow {
	rows := make([]NoteRow, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, NoteRow{
			Shot:          v.Name,
			Notes:         v.UserNotes,
			Transcription: v.Transcript,
			Summary:       v.AINotes,
		})
	}
	return rows
}

// BuildNotesHTML renders rows as an HTML table. Cell text is escaped and
// newlines become <br>.
func BuildNotesHTML(rows []NoteRow) string {
	var b strings.Builder
	b.WriteString("<h2>" + NotesSubject + "</h2>\n")
	b.WriteString("<table border='1' cellpadding='6' cellspacing='0' style='border-collapse:collapse;font-family:sans-serif;'>\n")
	b.WriteString("<thead><tr style='background:#f1f5f9;'><th>Shot/Version</th><th>Notes</th><th>Transcription</th><th>Summary</th></tr></thead>\n<tbody>\n")
	for _, r := range rows {
		b.WriteString("<tr>")
		for _, cell := range []string{r.Shot, r.Notes, r.Transcription, r.Summary} {
			b.WriteString("<td>" + htmlCell(cell) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table>\n")
	return b.String()
}

func htmlCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// Service sends notes through the configured channels. email and publishers
// may be nil or empty when not configured.
type Service struct {
	email      EmailSender
	publishers []Publisher
}

func NewService(email EmailSender, publishers ...Publisher) *Service {
	return &Service{email: email, publishers: publishers}
}

func (s *Service) EmailEnabled() bool {
	return s.email != nil
}

func (s *Service) HasPublishers() bool {
	return len(s.publishers) > 0
}

// SendNotesEmail validates the request and sends the email in the
// background. Delivery failures are logged.
func (s *Service) SendNotesEmail(ctx context.Context, to string, rows []NoteRow) error {
	if s.email == nil {
		return fmt.Errorf("%w: email", ErrNotConfigured)
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	email := Email{To: addr.Address, Subject: NotesSubject, HTML: BuildNotesHTML(rows)}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundSendLimit)
	go func() {
		defer cancel()
		if err := s.email.SendEmail(sendCtx, email); err != nil {
			slog.Error("failed to send notes email", "error", err, "to", email.To, "rows", len(rows))
			return
		}
		slog.Info("notes email sent", "to", email.To, "rows", len(rows))
	}()
	return nil
}

// Publish uploads file to every publisher and returns the names of the ones
// that succeeded, along with the joined errors of the ones that failed.
func (s *Service) Publish(ctx context.Context, file File) ([]string, error) {
	if len(s.publishers) == 0 {
		return nil, fmt.Errorf("%w: publishers", ErrNotConfigured)
	}
	var (
		published []string
		errs      []error
	)
	for _, p := range s.publishers {
		if err := p.Publish(ctx, file); err != nil {
			slog.Error("failed to publish notes", "error", err, "publisher", p.Name(), "filename", file.Name)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		published = append(published, p.Name())
	}
	return published, errors.Join(errs...)
}
