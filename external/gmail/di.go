package gmail

import (
	"context"

	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/samber/do/v2"
)

// RegisterDI provides a *Sender, or nil when GMAIL_SENDER is not set.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Sender, error) {
		c := do.MustInvoke[*config.Config](i)
		if c.GmailSender == "" {
			return nil, nil
		}
		return NewSenderFromFiles(context.Background(), c.GmailSender, c.GmailCredentialsFile, c.GmailTokenFile)
	})
}
