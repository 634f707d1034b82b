package webhook

import (
	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/samber/do/v2"
)

// RegisterDI provides a *HTTPSender, or nil when no webhook URL is set.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*HTTPSender, error) {
		c := do.MustInvoke[*config.Config](i)
		if c.NotesWebhookURL == "" {
			return nil, nil
		}
		return NewHTTPSender(c.NotesWebhookURL, httpclient.Options{
			Timeout:    c.OutboundTimeout,
			Attempts:   c.OutboundRetryAttempts,
			RetryDelay: c.OutboundRetryDelay,
		}), nil
	})
}
