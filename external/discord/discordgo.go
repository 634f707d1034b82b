package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/dailynotes/internal/notify"
)

const maxMessageLength = 2000

var ErrChannelNotFound = errors.New("discord channel not found")

// Publisher posts files to a text channel over the Discord REST API. It never
// opens a gateway connection.
type Publisher struct {
	session   *discordgo.Session
	channelID string
}

func NewPublisher(token, channelID string, timeout time.Duration, retries int) (*Publisher, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		s.Client = &http.Client{Timeout: timeout}
	}
	s.MaxRestRetries = retries
	return &Publisher{session: s, channelID: channelID}, nil
}

func (p *Publisher) Name() string { return "discord" }

func (p *Publisher) Publish(ctx context.Context, file notify.File) error {
	_, err := p.session.ChannelMessageSendComplex(p.channelID, &discordgo.MessageSend{
		Content: truncate(file.Message, maxMessageLength),
		Files: []*discordgo.File{
			{Name: file.Name, ContentType: "text/csv", Reader: bytes.NewReader(file.Body)},
		},
	}, discordgo.WithContext(ctx))
	if isRESTNotFound(err) {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, p.channelID)
	}
	return err
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func isRESTNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}
