package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/foxseedlab/dailynotes/internal/notify"
)

type summaryRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Prompt   string `json:"prompt"`
}

type emailRequest struct {
	Email string `json:"email"`
	// Notes overrides the stored versions when present.
	Notes []notify.NoteRow `json:"notes"`
}

type publishRequest struct {
	Message string `json:"message"`
}

func (s *Server) llmSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	summary, err := s.versions.Summarize(r.Context(), req.Provider, req.Text, req.Prompt)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"summary": summary})
}

func (s *Server) emailNotes(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	rows := req.Notes
	if rows == nil {
		versions, err := s.versions.List(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		rows = notify.RowsFromVersions(versions)
	}
	if err := s.notes.SendNotesEmail(r.Context(), req.Email, rows); err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusAccepted, envelope{"message": "Notes sent to " + strings.TrimSpace(req.Email)})
}

// publishNotes uploads the CSV export to every configured destination. A
// partial failure still answers 200 and lists the failures.
func (s *Server) publishNotes(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}
	var buf bytes.Buffer
	if err := s.versions.ExportCSV(r.Context(), &buf); err != nil {
		handleError(w, r, err)
		return
	}
	published, err := s.notes.Publish(r.Context(), notify.File{
		Name:    exportFilename,
		Body:    buf.Bytes(),
		Message: req.Message,
	})
	if err != nil && len(published) == 0 {
		if s.notes.HasPublishers() {
			writeError(w, http.StatusBadGateway, fmt.Sprintf("publish failed: %v", err))
			return
		}
		handleError(w, r, err)
		return
	}
	body := envelope{"published": published}
	if err != nil {
		body["failed"] = err.Error()
	}
	writeSuccess(w, http.StatusOK, body)
}
