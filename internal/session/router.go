package session

import (
	"strings"
	"time"

	"github.com/foxseedlab/dailynotes/internal/transcriber"
)

type RouterState int

const (
	StateInactive RouterState = iota
	// StateActivating means a version was selected and its baseline has not
	// been taken yet.
	StateActivating
	StateActive
)

func (s RouterState) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Router folds cumulative segment snapshots into the transcript of the active
// version. It is not safe for concurrent use; Manager confines it to one
// goroutine.
type Router struct {
	state       RouterState
	subjectID   string
	activatedAt time.Time
	seen        map[string]struct{}
	transcript  string
}

func NewRouter() *Router {
	return &Router{seen: make(map[string]struct{})}
}

// Activate makes subjectID the active version. The seen set is discarded and
// transcript continues from the stored value of the version.
func (r *Router) Activate(subjectID string, now time.Time, transcript string) {
	r.state = StateActivating
	r.subjectID = subjectID
	r.activatedAt = now
	r.seen = make(map[string]struct{})
	r.transcript = transcript
}

// Deactivate drops the active version. Later snapshots are ignored.
func (r *Router) Deactivate() {
	r.state = StateInactive
	r.subjectID = ""
	r.activatedAt = time.Time{}
	r.seen = make(map[string]struct{})
	r.transcript = ""
}

// Baseline marks every segment of snapshot as seen without emitting it.
func (r *Router) Baseline(snapshot []transcriber.Segment) {
	if r.state == StateInactive {
		return
	}
	for _, seg := range snapshot {
		r.seen[seg.ID] = struct{}{}
	}
	r.state = StateActive
}

// Route appends the unseen segments of snapshot to the transcript, in
// snapshot order, and returns the appended increment. It returns "" when
// nothing is new or no version is active.
func (r *Router) Route(snapshot []transcriber.Segment) string {
	if r.state == StateInactive {
		return ""
	}
	var lines []string
	for _, seg := range snapshot {
		if _, ok := r.seen[seg.ID]; ok {
			continue
		}
		r.seen[seg.ID] = struct{}{}
		lines = append(lines, formatSegment(seg))
	}
	if len(lines) == 0 {
		return ""
	}
	increment := strings.Join(lines, "\n")
	if r.transcript == "" {
		r.transcript = increment
	} else {
		r.transcript += "\n" + increment
	}
	return increment
}

func (r *Router) State() RouterState { return r.state }
func (r *Router) SubjectID() string { return r.subjectID }
func (r *Router) ActivatedAt() time.Time { return r.activatedAt }
func (r *Router) Transcript() string { return r.transcript }
func (r *Router) SeenCount() int { return len(r.seen) }

func (r *Router) HasSeen(segmentID string) bool {
	_, ok := r.seen[segmentID]
	return ok
}
