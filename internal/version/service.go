package version

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/foxseedlab/dailynotes/internal/csvio"
	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/summarizer"
)

const userNotePrefix = "User: "

var ErrValidation = errors.New("validation failed")

// Summarizer produces AI notes from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, provider, text, prompt string) (string, error)
}

type CreateInput struct {
	ID         string
	Name       string
	UserNotes  string
	AINotes    string
	Transcript string
	Status     string
}

type GenerateInput struct {
	// Transcript overrides the stored transcript when non-empty.
	Transcript string
	Provider   string
	Prompt     string
}

type Service struct {
	repo       repository.VersionRepository
	summarizer Summarizer
}

func NewService(repo repository.VersionRepository, sum Summarizer) *Service {
	return &Service{repo: repo, summarizer: sum}
}

func newVersion(in CreateInput) (repository.Version, error) {
	name := strings.TrimSpace(in.Name)
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = name
	}
	if id == "" {
		return repository.Version{}, fmt.Errorf("%w: version needs an id or a name", ErrValidation)
	}
	if name == "" {
		name = id
	}
	return repository.Version{
		ID:         id,
		Name:       name,
		UserNotes:  in.UserNotes,
		AINotes:    in.AINotes,
		Transcript: in.Transcript,
		Status:     in.Status,
	}, nil
}

// Create stores a version. An empty ID falls back to the name; an existing ID
// is overwritten in place.
func (s *Service) Create(ctx context.Context, in CreateInput) (*repository.Version, bool, error) {
	v, err := newVersion(in)
	if err != nil {
		return nil, false, err
	}
	created, err := s.repo.UpsertVersion(ctx, v)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("version stored", "version_id", v.ID, "created", created)
	return &v, created, nil
}

// Replace swaps the whole version list in one step. Every input is checked
// before anything is stored, so a rejected list leaves the store untouched.
func (s *Service) Replace(ctx context.Context, in []CreateInput) ([]repository.Version, error) {
	versions := make([]repository.Version, 0, len(in))
	for i, item := range in {
		v, err := newVersion(item)
		if err != nil {
			return nil, fmt.Errorf("version %d: %w", i, err)
		}
		versions = append(versions, v)
	}
	if err := s.repo.ReplaceVersions(ctx, versions); err != nil {
		return nil, err
	}
	slog.Info("versions replaced", "count", len(versions))
	return versions, nil
}

func (s *Service) Get(ctx context.Context, id string) (*repository.Version, error) {
	return s.repo.GetVersion(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]repository.Version, error) {
	return s.repo.ListVersions(ctx)
}

// AddNote appends a "User: " note to the version's user notes.
func (s *Service) AddNote(ctx context.Context, id, text string) (*repository.Version, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is empty", ErrValidation)
	}
	return s.repo.AppendUserNote(ctx, id, userNotePrefix+text)
}

func (s *Service) UpdateNotes(ctx context.Context, id string, in repository.UpdateVersionInput) (*repository.Version, error) {
	return s.repo.UpdateVersion(ctx, id, in)
}

// SetTranscript replaces the accumulated transcript of a version.
func (s *Service) SetTranscript(ctx context.Context, id, transcript string) error {
	_, err := s.repo.UpdateVersion(ctx, id, repository.UpdateVersionInput{Transcript: &transcript})
	return err
}

// GenerateAINotes summarizes the transcript and stores the result as the
// version's AI notes.
func (s *Service) GenerateAINotes(ctx context.Context, id string, in GenerateInput) (*repository.Version, error) {
	v, err := s.repo.GetVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	transcript := in.Transcript
	if strings.TrimSpace(transcript) == "" {
		transcript = v.Transcript
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: version %s has no transcript", ErrValidation, id)
	}
	summary, err := s.Summarize(ctx, in.Provider, transcript, in.Prompt)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateVersion(ctx, id, repository.UpdateVersionInput{AINotes: &summary})
}

// Summarize runs the summarizer on free text.
func (s *Service) Summarize(ctx context.Context, provider, text, prompt string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is empty", ErrValidation)
	}
	if s.summarizer == nil {
		return "", fmt.Errorf("%w: no llm provider configured", ErrValidation)
	}
	summary, err := s.summarizer.Summarize(ctx, provider, text, prompt)
	if errors.Is(err, summarizer.ErrUnknownProvider) {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return summary, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteVersion(ctx, id)
}

func (s *Service) Clear(ctx context.Context) (int, error) {
	return s.repo.ClearVersions(ctx)
}

// ImportCSV replaces every stored version with the versions listed in r.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (csvio.ImportResult, error) {
	result, err := csvio.ParseVersions(r)
	if err != nil {
		return csvio.ImportResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.repo.ReplaceVersions(ctx, result.Versions); err != nil {
		return csvio.ImportResult{}, err
	}
	slog.Info("versions imported from csv", "count", len(result.Versions), "id_column", result.IDColumnFound, "skipped_rows", result.SkippedRows)
	return result, nil
}

func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	versions, err := s.repo.ListVersions(ctx)
	if err != nil {
		return err
	}
	return csvio.WriteExport(w, versions)
}
