package transcriber

import (
	"context"
	"errors"
)

const UnknownSpeaker = "Unknown"

var ErrInvalidMeetingURL = errors.New("invalid meeting url")

// Segment is one utterance reported by the meeting transcription service.
// Segments never change once observed.
type Segment struct {
	ID      string
	Speaker string
	Text    string
}

// Source returns the cumulative segment list of a meeting, oldest first.
type Source interface {
	GetSegments(ctx context.Context, meetingID string) ([]Segment, error)
}

// Bot controls the meeting bot that produces the transcript.
type Bot interface {
	StartBot(ctx context.Context, meetingURL, language, botName string) (meetingID string, err error)
	StopBot(ctx context.Context, meetingID string) error
	UpdateLanguage(ctx context.Context, meetingID, language string) error
}

type Client interface {
	Source
	Bot
}
