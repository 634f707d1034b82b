package session

import (
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/foxseedlab/dailynotes/internal/transcriber"
	"github.com/samber/do/v2"
)

// IncrementListener may be provided to the injector to observe routed
// transcript lines.
type IncrementListener func(versionID, increment string)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.ClientConfig](i)
		client := do.MustInvoke[transcriber.Client](i)
		store := do.MustInvoke[VersionStore](i)
		opts := Options{
			PollInterval: cfg.PollInterval,
			BotName:      cfg.BotName,
			Language:     cfg.TranscriptionLanguage,
		}
		if listener, err := do.Invoke[IncrementListener](i); err == nil {
			opts.OnIncrement = listener
		}
		return NewManager(client, store, opts), nil
	})
}
