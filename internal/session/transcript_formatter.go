package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/dailynotes/internal/transcriber"
)

const statusTimeLayout = "15:04:05"

func formatSegment(seg transcriber.Segment) string {
	speaker := strings.TrimSpace(seg.Speaker)
	if speaker == "" {
		speaker = transcriber.UnknownSpeaker
	}
	return fmt.Sprintf("%s: %s", speaker, seg.Text)
}

// FormatSegments renders a snapshot the same way the router appends it.
func FormatSegments(segments []transcriber.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, formatSegment(seg))
	}
	return strings.Join(lines, "\n")
}

// FormatStatus renders a Status for the meeting prompt.
func FormatStatus(s Status, now time.Time) string {
	lines := []string{messageNotInMeeting}
	if s.MeetingID != "" {
		lines[0] = fmt.Sprintf(messageMeetingFormat, s.MeetingID)
	}
	if s.VersionID == "" {
		lines = append(lines, messageNoVersionSelected)
		return strings.Join(lines, "\n")
	}
	lines = append(lines,
		fmt.Sprintf(messageVersionFormat, s.VersionID, s.State, s.ActivatedAt.Format(statusTimeLayout), elapsedSince(s.ActivatedAt, now)),
		fmt.Sprintf(messageTranscriptSizeFormat, s.SeenSegments, lineCount(s.Transcript)),
	)
	return strings.Join(lines, "\n")
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

func elapsedSince(t, now time.Time) time.Duration {
	if t.IsZero() || now.Before(t) {
		return 0
	}
	return now.Sub(t).Truncate(time.Second)
}
