package backend

import (
	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/foxseedlab/dailynotes/internal/session"
	"github.com/foxseedlab/dailynotes/internal/tracking"
	"github.com/samber/do/v2"
)

// RegisterDI provides the *Client and exposes it as the meeting's version
// store and as a tracking.Client routed through the server.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Client, error) {
		c := do.MustInvoke[*config.ClientConfig](i)
		return NewClient(httpclient.Options{
			BaseURL:    c.BackendURL,
			Timeout:    c.OutboundTimeout,
			Attempts:   c.OutboundRetryAttempts,
			RetryDelay: c.OutboundRetryDelay,
		}), nil
	})
	do.Provide(injector, func(i do.Injector) (session.VersionStore, error) {
		return do.MustInvoke[*Client](i), nil
	})
	do.Provide(injector, func(i do.Injector) (tracking.Client, error) {
		return do.MustInvoke[*Client](i), nil
	})
}

var (
	_ session.VersionStore = (*Client)(nil)
	_ tracking.Client      = (*Client)(nil)
)
