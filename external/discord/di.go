package discord

import (
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/samber/do/v2"
)

// RegisterDI provides a *Publisher, or nil when no notes channel is set.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Publisher, error) {
		c := do.MustInvoke[*config.Config](i)
		if c.DiscordToken == "" || c.DiscordNotesChannelID == "" {
			return nil, nil
		}
		return NewPublisher(c.DiscordToken, c.DiscordNotesChannelID, c.OutboundTimeout, c.OutboundRetryAttempts-1)
	})
}
