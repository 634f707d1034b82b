package repository

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps versions in process memory. Contents are lost on restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	versions map[string]*Version
	order    []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{versions: make(map[string]*Version)}
}

func (r *MemoryRepository) UpsertVersion(_ context.Context, v Version) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.versions[v.ID]
	stored := v
	r.versions[v.ID] = &stored
	if !exists {
		r.order = append(r.order, v.ID)
	}
	return !exists, nil
}

func (r *MemoryRepository) GetVersion(_ context.Context, id string) (*Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *v
	return &out, nil
}

func (r *MemoryRepository) ListVersions(_ context.Context) ([]Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Version, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, *r.versions[id])
	}
	return list, nil
}

func (r *MemoryRepository) UpdateVersion(_ context.Context, id string, input UpdateVersionInput) (*Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.UserNotes != nil {
		v.UserNotes = *input.UserNotes
	}
	if input.AINotes != nil {
		v.AINotes = *input.AINotes
	}
	if input.Transcript != nil {
		v.Transcript = *input.Transcript
	}
	if input.Status != nil {
		v.Status = *input.Status
	}
	out := *v
	return &out, nil
}

func (r *MemoryRepository) AppendUserNote(_ context.Context, id, note string) (*Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v.UserNotes == "" {
		v.UserNotes = note
	} else {
		v.UserNotes += NoteDelimiter + note
	}
	out := *v
	return &out, nil
}

func (r *MemoryRepository) DeleteVersion(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[id]; !ok {
		return ErrNotFound
	}
	delete(r.versions, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

func (r *MemoryRepository) ClearVersions(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.versions)
	r.versions = make(map[string]*Version)
	r.order = nil
	return n, nil
}

func (r *MemoryRepository) ReplaceVersions(_ context.Context, versions []Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = make(map[string]*Version, len(versions))
	r.order = make([]string, 0, len(versions))
	for _, v := range versions {
		stored := v
		if _, dup := r.versions[v.ID]; !dup {
			r.order = append(r.order, v.ID)
		}
		r.versions[v.ID] = &stored
	}
	return nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}
