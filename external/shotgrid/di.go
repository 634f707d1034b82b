package shotgrid

import (
	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/foxseedlab/dailynotes/internal/tracking"
	"github.com/samber/do/v2"
)

// RegisterDI provides a tracking.Client, or nil when ShotGrid is not configured.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (tracking.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.ShotGridEnabled() {
			return nil, nil
		}
		return NewClient(Config{
			URL:        c.ShotGridURL,
			ScriptName: c.ShotGridScriptName,
			APIKey:     c.ShotGridAPIKey,
			Client: httpclient.Options{
				Timeout:    c.OutboundTimeout,
				Attempts:   c.OutboundRetryAttempts,
				RetryDelay: c.OutboundRetryDelay,
			},
		}), nil
	})
}
