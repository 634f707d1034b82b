package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/transcriber"
)

const (
	platformGoogleMeet = "google_meet"
	autoLanguage       = "auto"
)

var meetCodePattern = regexp.MustCompile(`^[a-z]{3}-[a-z]{4}-[a-z]{3}$`)

type VexaConfig struct {
	APIURL string
	APIKey string
	Client httpclient.Options
}

// VexaClient talks to the Vexa meeting bot API.
type VexaClient struct {
	http *httpclient.Client
}

func NewVexaClient(cfg VexaConfig) *VexaClient {
	opts := cfg.Client
	opts.BaseURL = cfg.APIURL
	if opts.Header == nil {
		opts.Header = http.Header{}
	}
	opts.Header.Set("X-API-Key", cfg.APIKey)
	return &VexaClient{http: httpclient.New(opts)}
}

// ParseMeetingURL accepts a Google Meet URL or a bare meeting code and
// returns the platform and native meeting id.
func ParseMeetingURL(raw string) (platform, nativeID string, err error) {
	raw = strings.TrimSpace(raw)
	if meetCodePattern.MatchString(raw) {
		return platformGoogleMeet, raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", transcriber.ErrInvalidMeetingURL, err)
	}
	if u.Host == "" && !strings.Contains(raw, "://") {
		// scheme-less input such as "meet.google.com/abc-defg-hij"
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", transcriber.ErrInvalidMeetingURL, err)
		}
	}
	if !strings.EqualFold(u.Hostname(), "meet.google.com") {
		return "", "", fmt.Errorf("%w: unsupported host %q", transcriber.ErrInvalidMeetingURL, u.Hostname())
	}
	code := strings.Trim(u.Path, "/")
	if !meetCodePattern.MatchString(code) {
		return "", "", fmt.Errorf("%w: unexpected meeting code %q", transcriber.ErrInvalidMeetingURL, code)
	}
	return platformGoogleMeet, code, nil
}

func splitMeetingID(meetingID string) (platform, nativeID string, err error) {
	platform, nativeID, ok := strings.Cut(meetingID, "/")
	if !ok || platform == "" || nativeID == "" {
		return "", "", fmt.Errorf("%w: meeting id %q", transcriber.ErrInvalidMeetingURL, meetingID)
	}
	return platform, nativeID, nil
}

type startBotRequest struct {
	Platform        string `json:"platform"`
	NativeMeetingID string `json:"native_meeting_id"`
	Language        string `json:"language,omitempty"`
	BotName         string `json:"bot_name,omitempty"`
}

func (c *VexaClient) StartBot(ctx context.Context, meetingURL, language, botName string) (string, error) {
	platform, nativeID, err := ParseMeetingURL(meetingURL)
	if err != nil {
		return "", err
	}
	body := startBotRequest{
		Platform:        platform,
		NativeMeetingID: nativeID,
		BotName:         botName,
	}
	if language != "" && language != autoLanguage {
		body.Language = language
	}
	if _, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/bots", JSON: body}); err != nil {
		return "", fmt.Errorf("start bot: %w", err)
	}
	meetingID := platform + "/" + nativeID
	slog.Info("meeting bot requested", "meeting_id", meetingID, "language", language)
	return meetingID, nil
}

func (c *VexaClient) StopBot(ctx context.Context, meetingID string) error {
	platform, nativeID, err := splitMeetingID(meetingID)
	if err != nil {
		return err
	}
	path := "/bots/" + url.PathEscape(platform) + "/" + url.PathEscape(nativeID)
	if _, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodDelete, Path: path}); err != nil {
		return fmt.Errorf("stop bot: %w", err)
	}
	return nil
}

func (c *VexaClient) UpdateLanguage(ctx context.Context, meetingID, language string) error {
	platform, nativeID, err := splitMeetingID(meetingID)
	if err != nil {
		return err
	}
	path := "/bots/" + url.PathEscape(platform) + "/" + url.PathEscape(nativeID) + "/config"
	body := map[string]string{"language": language}
	if _, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPut, Path: path, JSON: body}); err != nil {
		return fmt.Errorf("update bot language: %w", err)
	}
	return nil
}

type transcriptResponse struct {
	Segments []vexaSegment `json:"segments"`
}

type vexaSegment struct {
	ID                *string  `json:"id"`
	Start             *float64 `json:"start"`
	AbsoluteStartTime string   `json:"absolute_start_time"`
	Speaker           string   `json:"speaker"`
	Text              string   `json:"text"`
}

func (c *VexaClient) GetSegments(ctx context.Context, meetingID string) ([]transcriber.Segment, error) {
	platform, nativeID, err := splitMeetingID(meetingID)
	if err != nil {
		return nil, err
	}
	var resp transcriptResponse
	path := "/transcripts/" + url.PathEscape(platform) + "/" + url.PathEscape(nativeID)
	if err := c.http.DoJSON(ctx, httpclient.Request{Method: http.MethodGet, Path: path}, &resp); err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	segments := make([]transcriber.Segment, 0, len(resp.Segments))
	for i, s := range resp.Segments {
		segments = append(segments, s.toSegment(i))
	}
	return segments, nil
}

// toSegment fills missing ids from the segment timestamps so that ids stay
// stable across polls. A segment without any timestamp is keyed by its
// position in the cumulative snapshot and its text.
func (s vexaSegment) toSegment(index int) transcriber.Segment {
	speaker := strings.TrimSpace(s.Speaker)
	if speaker == "" {
		speaker = transcriber.UnknownSpeaker
	}
	text := strings.TrimSpace(s.Text)

	var id string
	switch {
	case s.ID != nil && *s.ID != "":
		id = *s.ID
	case s.AbsoluteStartTime != "":
		id = s.AbsoluteStartTime
	case s.Start != nil:
		id = strconv.FormatFloat(*s.Start, 'f', -1, 64)
	default:
		id = "#" + strconv.Itoa(index) + ":" + speaker + ":" + text
	}
	return transcriber.Segment{
		ID:      id,
		Speaker: speaker,
		Text:    text,
	}
}
