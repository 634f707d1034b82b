package llm

import (
	"log/slog"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/foxseedlab/dailynotes/internal/summarizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*summarizer.Registry, error) {
		c := do.MustInvoke[*config.Config](i)
		registry := summarizer.NewRegistry(c.LLMDefaultProvider, c.LLMPrompt)
		if c.AnthropicAPIKey != "" {
			registry.Register(config.LLMProviderAnthropic, NewAnthropicProvider(AnthropicConfig{
				APIKey: c.AnthropicAPIKey,
				Model:  c.AnthropicModel,
			}))
		}
		if c.OpenAIAPIKey != "" {
			registry.Register(config.LLMProviderOpenAI, NewOpenAIProvider(OpenAIConfig{
				APIKey:  c.OpenAIAPIKey,
				Model:   c.OpenAIModel,
				BaseURL: c.OpenAIBaseURL,
				Client: httpclient.Options{
					Timeout:    c.OutboundTimeout,
					Attempts:   c.OutboundRetryAttempts,
					RetryDelay: c.OutboundRetryDelay,
				},
			}))
		}
		slog.Info("llm providers configured", "providers", registry.Providers())
		return registry, nil
	})
}
