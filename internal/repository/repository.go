package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("version not found")

// UpdateVersionInput carries a partial update; nil fields are left untouched.
type UpdateVersionInput struct {
	UserNotes  *string
	AINotes    *string
	Transcript *string
	Status     *string
}

type VersionRepository interface {
	// UpsertVersion inserts v at the end of the list, or overwrites an existing
	// version with the same ID in place. created reports which happened.
	UpsertVersion(ctx context.Context, v Version) (created bool, err error)
	GetVersion(ctx context.Context, id string) (*Version, error)
	ListVersions(ctx context.Context) ([]Version, error)
	UpdateVersion(ctx context.Context, id string, input UpdateVersionInput) (*Version, error)
	// AppendUserNote appends note to UserNotes using NoteDelimiter.
	AppendUserNote(ctx context.Context, id, note string) (*Version, error)
	DeleteVersion(ctx context.Context, id string) error
	ClearVersions(ctx context.Context) (int, error)
	// ReplaceVersions drops every stored version and stores versions in order.
	ReplaceVersions(ctx context.Context, versions []Version) error
}

type Repository interface {
	VersionRepository
	Ping(ctx context.Context) error
}
