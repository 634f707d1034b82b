package transcriber

import (
	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/foxseedlab/dailynotes/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Client, error) {
		c := do.MustInvoke[*config.ClientConfig](i)
		return NewVexaClient(VexaConfig{
			APIURL: c.VexaAPIURL,
			APIKey: c.VexaAPIKey,
			Client: httpclient.Options{
				Timeout:    c.OutboundTimeout,
				Attempts:   c.OutboundRetryAttempts,
				RetryDelay: c.OutboundRetryDelay,
			},
		}), nil
	})
}
