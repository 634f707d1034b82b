package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/transcriber"
)

const (
	defaultPollInterval    = 5 * time.Second
	leaveOnShutdownTimeout = 10 * time.Second
)

var (
	ErrAlreadyInMeeting = errors.New("already in a meeting")
	ErrNotInMeeting     = errors.New("not in a meeting")
	ErrStopped          = errors.New("session manager stopped")
)

// VersionStore is the part of the version store the session needs.
type VersionStore interface {
	GetVersion(ctx context.Context, id string) (*repository.Version, error)
	SetTranscript(ctx context.Context, id, transcript string) error
}

type Options struct {
	PollInterval time.Duration
	BotName      string
	Language     string
	Now          func() time.Time
	// OnIncrement is called from the manager goroutine after new transcript
	// lines were routed to a version.
	OnIncrement func(versionID, increment string)
}

// Status is a snapshot of the manager state.
type Status struct {
	MeetingID    string
	Language     string
	VersionID    string
	State        RouterState
	ActivatedAt  time.Time
	SeenSegments int
	Transcript   string
}

type command func(ctx context.Context)

// Manager owns the meeting and the router. All state is confined to the
// goroutine running Run; the exported methods send commands to it and wait
// for the reply. Poll ticks are handled by the same goroutine so they never
// overlap with each other or with a version switch.
type Manager struct {
	client       transcriber.Client
	store        VersionStore
	pollInterval time.Duration
	botName      string
	onIncrement  func(versionID, increment string)
	now          func() time.Time

	commands chan command
	done     chan struct{}

	// owned by the Run goroutine
	router    *Router
	meetingID string
	language  string
	ticker    *time.Ticker
	// unpushed holds, per version, a transcript the store has not accepted yet.
	unpushed map[string]string
}

func NewManager(client transcriber.Client, store VersionStore, opts Options) *Manager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OnIncrement == nil {
		opts.OnIncrement = func(string, string) {}
	}
	return &Manager{
		client:       client,
		store:        store,
		pollInterval: opts.PollInterval,
		botName:      opts.BotName,
		onIncrement:  opts.OnIncrement,
		now:          opts.Now,
		commands:     make(chan command),
		done:         make(chan struct{}),
		router:       NewRouter(),
		language:     opts.Language,
		unpushed:     make(map[string]string),
	}
}

// Run processes commands and poll ticks until ctx is cancelled. A meeting
// still joined at that point is left.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			if m.meetingID != "" {
				leaveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaveOnShutdownTimeout)
				if err := m.leave(leaveCtx); err != nil {
					slog.Warn("failed to leave meeting on shutdown", "error", err)
				}
				cancel()
			}
			if len(m.unpushed) > 0 {
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaveOnShutdownTimeout)
				m.flushUnpushed(flushCtx)
				cancel()
			}
			return ctx.Err()
		case cmd := <-m.commands:
			cmd(ctx)
		case <-m.tickC():
			m.tick(ctx)
		}
	}
}

func (m *Manager) Join(ctx context.Context, meetingURL string) (string, error) {
	var meetingID string
	err := m.call(ctx, func(ctx context.Context) error {
		id, err := m.join(ctx, meetingURL)
		meetingID = id
		return err
	})
	return meetingID, err
}

func (m *Manager) Leave(ctx context.Context) error {
	return m.call(ctx, m.leave)
}

// Select activates a version. The version must exist in the store.
func (m *Manager) Select(ctx context.Context, versionID string) (*repository.Version, error) {
	var v *repository.Version
	err := m.call(ctx, func(ctx context.Context) error {
		selected, err := m.selectVersion(ctx, versionID)
		v = selected
		return err
	})
	return v, err
}

// Deselect stops routing transcript lines to any version.
func (m *Manager) Deselect(ctx context.Context) error {
	return m.call(ctx, func(ctx context.Context) error {
		m.deselect(ctx)
		return nil
	})
}

func (m *Manager) UpdateLanguage(ctx context.Context, language string) error {
	return m.call(ctx, func(ctx context.Context) error {
		return m.updateLanguage(ctx, language)
	})
}

func (m *Manager) Status(ctx context.Context) (Status, error) {
	var s Status
	err := m.call(ctx, func(context.Context) error {
		s = m.status()
		return nil
	})
	return s, err
}

func (m *Manager) call(ctx context.Context, fn func(ctx context.Context) error) error {
	reply := make(chan error, 1)
	cmd := func(context.Context) { reply <- fn(ctx) }
	select {
	case m.commands <- cmd:
	case <-m.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) tickC() <-chan time.Time {
	if m.ticker == nil {
		return nil
	}
	return m.ticker.C
}

func (m *Manager) join(ctx context.Context, meetingURL string) (string, error) {
	if m.meetingID != "" {
		return "", fmt.Errorf("%w: %s", ErrAlreadyInMeeting, m.meetingID)
	}
	meetingID, err := m.client.StartBot(ctx, meetingURL, m.language, m.botName)
	if err != nil {
		return "", err
	}
	m.meetingID = meetingID
	m.ticker = time.NewTicker(m.pollInterval)
	if m.router.State() == StateActive {
		// Segment ids of another meeting say nothing about this one.
		m.router.Activate(m.router.SubjectID(), m.now(), m.router.Transcript())
	}
	slog.Info("joined meeting", "meeting_id", meetingID, "poll_interval", m.pollInterval)
	return meetingID, nil
}

func (m *Manager) leave(ctx context.Context) error {
	if m.meetingID == "" {
		return ErrNotInMeeting
	}
	meetingID := m.meetingID
	m.meetingID = ""
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	if m.router.State() == StateActive {
		m.router.Activate(m.router.SubjectID(), m.now(), m.router.Transcript())
	}
	if err := m.client.StopBot(ctx, meetingID); err != nil {
		return err
	}
	slog.Info("left meeting", "meeting_id", meetingID)
	return nil
}

func (m *Manager) selectVersion(ctx context.Context, versionID string) (*repository.Version, error) {
	m.flushUnpushed(ctx)
	v, err := m.store.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	seed := v.Transcript
	if pending, ok := m.unpushed[v.ID]; ok {
		seed = pending
	}
	m.router.Activate(v.ID, m.now(), seed)
	slog.Info("version selected", "version_id", v.ID, "meeting_id", m.meetingID)

	if m.meetingID == "" {
		return v, nil
	}
	segments, err := m.client.GetSegments(ctx, m.meetingID)
	if err != nil {
		// the next tick takes the baseline instead
		slog.Debug("baseline fetch failed", "error", err, "version_id", v.ID)
		return v, nil
	}
	m.router.Baseline(segments)
	slog.Debug("baseline taken", "version_id", v.ID, "seen_segments", m.router.SeenCount())
	return v, nil
}

func (m *Manager) deselect(ctx context.Context) {
	m.flushUnpushed(ctx)
	m.router.Deactivate()
	slog.Info("version deselected", "meeting_id", m.meetingID)
}

func (m *Manager) updateLanguage(ctx context.Context, language string) error {
	if m.meetingID == "" {
		m.language = language
		return nil
	}
	if err := m.client.UpdateLanguage(ctx, m.meetingID, language); err != nil {
		return err
	}
	m.language = language
	return nil
}

func (m *Manager) tick(ctx context.Context) {
	if m.meetingID == "" || m.router.State() == StateInactive {
		return
	}
	segments, err := m.client.GetSegments(ctx, m.meetingID)
	if err != nil {
		slog.Debug("transcript not available yet", "error", err, "meeting_id", m.meetingID)
		return
	}

	if m.router.State() == StateActivating {
		m.router.Baseline(segments)
		slog.Debug("baseline taken on tick", "version_id", m.router.SubjectID(), "seen_segments", m.router.SeenCount())
		return
	}

	increment := m.router.Route(segments)
	if increment == "" {
		return
	}
	versionID := m.router.SubjectID()
	m.push(ctx, versionID, m.router.Transcript())
	m.onIncrement(versionID, increment)
}

func (m *Manager) push(ctx context.Context, versionID, transcript string) {
	if err := m.store.SetTranscript(ctx, versionID, transcript); err != nil {
		m.unpushed[versionID] = transcript
		slog.Warn("failed to push transcript", "error", err, "version_id", versionID)
		return
	}
	delete(m.unpushed, versionID)
}

// flushUnpushed retries every transcript the store rejected earlier. It runs
// before the router drops the outgoing transcript; entries that fail again
// stay pending.
func (m *Manager) flushUnpushed(ctx context.Context) {
	for versionID, transcript := range m.unpushed {
		if err := m.store.SetTranscript(ctx, versionID, transcript); err != nil {
			slog.Warn("failed to push pending transcript", "error", err, "version_id", versionID)
			continue
		}
		delete(m.unpushed, versionID)
	}
}

func (m *Manager) status() Status {
	return Status{
		MeetingID:    m.meetingID,
		Language:     m.language,
		VersionID:    m.router.SubjectID(),
		State:        m.router.State(),
		ActivatedAt:  m.router.ActivatedAt(),
		SeenSegments: m.router.SeenCount(),
		Transcript:   m.router.Transcript(),
	}
}
