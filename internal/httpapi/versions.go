package httpapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/version"
)

const (
	maxUploadSize  = 10 << 20
	exportFilename = "versions_export.csv"
)

type versionRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UserNotes  string `json:"user_notes"`
	AINotes    string `json:"ai_notes"`
	Transcript string `json:"transcript"`
	Status     string `json:"status"`
}

type replaceRequest struct {
	Versions []versionRequest `json:"versions"`
}

type noteRequest struct {
	NoteText string `json:"note_text"`
}

type updateNotesRequest struct {
	UserNotes  *string `json:"user_notes"`
	AINotes    *string `json:"ai_notes"`
	Transcript *string `json:"transcript"`
	Status     *string `json:"status"`
}

type generateRequest struct {
	Transcript string `json:"transcript"`
	Provider   string `json:"provider"`
	Prompt     string `json:"prompt"`
}

type versionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) uploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, fmt.Errorf("%w: multipart field \"file\" is required: %v", errBadRequest, err))
		return
	}
	defer file.Close()

	result, err := s.versions.ImportCSV(r.Context(), file)
	if err != nil {
		handleError(w, r, err)
		return
	}
	refs := make([]versionRef, 0, len(result.Versions))
	for _, v := range result.Versions {
		refs = append(refs, versionRef{ID: v.ID, Name: v.Name})
	}
	writeSuccess(w, http.StatusOK, envelope{
		"count":        len(refs),
		"versions":     refs,
		"id_column":    result.IDColumnFound,
		"skipped_rows": result.SkippedRows,
	})
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.versions.ExportCSV(r.Context(), &buf); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) createVersion(w http.ResponseWriter, r *http.Request) {
	var req versionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	v, created, err := s.versions.Create(r.Context(), version.CreateInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(w, status, envelope{"version": v, "created": created})
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.versions.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if versions == nil {
		versions = []repository.Version{}
	}
	writeSuccess(w, http.StatusOK, envelope{"count": len(versions), "versions": versions})
}

// replaceVersions swaps the whole list atomically, e.g. for a loaded playlist.
func (s *Server) replaceVersions(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	in := make([]version.CreateInput, 0, len(req.Versions))
	for _, v := range req.Versions {
		in = append(in, version.CreateInput(v))
	}
	versions, err := s.versions.Replace(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"count": len(versions), "versions": versions})
}

func (s *Server) clearVersions(w http.ResponseWriter, r *http.Request) {
	n, err := s.versions.Clear(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"count": n, "message": fmt.Sprintf("Cleared %d versions", n)})
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.versions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"version": v})
}

func (s *Server) deleteVersion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.versions.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"message": fmt.Sprintf("Version '%s' deleted", id)})
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	v, err := s.versions.AddNote(r.Context(), r.PathValue("id"), req.NoteText)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"version": v})
}

func (s *Server) updateNotes(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	v, err := s.versions.UpdateNotes(r.Context(), r.PathValue("id"), repository.UpdateVersionInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"version": v})
}

func (s *Server) generateAINotes(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}
	v, err := s.versions.GenerateAINotes(r.Context(), r.PathValue("id"), version.GenerateInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"version": v})
}
