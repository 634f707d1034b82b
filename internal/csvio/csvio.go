// Package csvio reads version lists from CSV playlists and writes the notes export.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/foxseedlab/dailynotes/internal/repository"
)

var ErrEmptyCSV = errors.New("CSV file is empty")

// ImportResult is the outcome of parsing a version list.
type ImportResult struct {
	Versions      []repository.Version
	IDColumnFound bool
	SkippedRows   int
}

// ParseVersions reads a playlist CSV. The header row is skipped, the first
// column is the display name and an optional "ID" column supplies the ID.
// Rows whose first column is blank are dropped; a blank ID falls back to the name.
func ParseVersions(r io.Reader) (ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.ToValidUTF8(raw, nil)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, ErrEmptyCSV
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	idIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")), "id") {
			idIdx = i
			break
		}
	}

	result := ImportResult{IDColumnFound: idIdx >= 0}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			result.SkippedRows++
			continue
		}
		name := strings.TrimSpace(row[0])
		id := name
		if idIdx >= 0 && idIdx < len(row) && strings.TrimSpace(row[idIdx]) != "" {
			id = strings.TrimSpace(row[idIdx])
		}
		result.Versions = append(result.Versions, repository.Version{ID: id, Name: name})
	}
	return result, nil
}

// SplitNotes splits accumulated user notes into individual trimmed notes.
func SplitNotes(userNotes string) []string {
	if userNotes == "" {
		return nil
	}
	var notes []string
	for _, n := range strings.Split(userNotes, repository.NoteDelimiter) {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}
	return notes
}

// WriteExport writes one row per note per version. A Status column is added
// when any version carries a status.
func WriteExport(w io.Writer, versions []repository.Version) error {
	withStatus := false
	for _, v := range versions {
		if v.Status != "" {
			withStatus = true
			break
		}
	}

	cw := csv.NewWriter(w)
	header := []string{"Version", "Note", "Transcript"}
	if withStatus {
		header = append(header, "Status")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := func(v repository.Version, note string) []string {
		r := []string{v.Name, note, v.Transcript}
		if withStatus {
			r = append(r, v.Status)
		}
		return r
	}
	for _, v := range versions {
		notes := SplitNotes(v.UserNotes)
		if len(notes) == 0 {
			if err := cw.Write(row(v, "")); err != nil {
				return err
			}
			continue
		}
		for _, note := range notes {
			if err := cw.Write(row(v, note)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
