package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"

	LLMProviderAnthropic = "anthropic"
	LLMProviderOpenAI    = "openai"
)

// Config is the backend (version store server) configuration.
type Config struct {
	Env                   string
	HTTPAddr              string
	ShutdownTimeout       time.Duration
	StoreBackend          string
	DatabaseURL           string
	OutboundTimeout       time.Duration
	OutboundRetryAttempts int
	OutboundRetryDelay    time.Duration
	LLMDefaultProvider    string
	LLMPrompt             string
	AnthropicAPIKey       string
	AnthropicModel        string
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	ShotGridURL           string
	ShotGridScriptName    string
	ShotGridAPIKey        string
	GmailSender           string
	GmailCredentialsFile  string
	GmailTokenFile        string
	DiscordToken          string
	DiscordNotesChannelID string
	NotesWebhookURL       string
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.StoreBackend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", StoreBackendPostgres)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendMemory, StoreBackendPostgres, c.StoreBackend)
	}
	if err := validateOutbound(c.OutboundTimeout, c.OutboundRetryAttempts); err != nil {
		return err
	}
	switch c.LLMDefaultProvider {
	case "", LLMProviderAnthropic, LLMProviderOpenAI:
	default:
		return fmt.Errorf("LLM_DEFAULT_PROVIDER must be %q or %q, got %q", LLMProviderAnthropic, LLMProviderOpenAI, c.LLMDefaultProvider)
	}
	shotgrid := []string{c.ShotGridURL, c.ShotGridScriptName, c.ShotGridAPIKey}
	if set := countNonEmpty(shotgrid); set != 0 && set != len(shotgrid) {
		return fmt.Errorf("SHOTGRID_URL, SHOTGRID_SCRIPT_NAME and SHOTGRID_API_KEY must be set together")
	}
	if c.GmailSender != "" && c.GmailCredentialsFile == "" {
		return fmt.Errorf("GMAIL_CREDENTIALS_FILE is required when GMAIL_SENDER is set")
	}
	if c.DiscordToken != "" && c.DiscordNotesChannelID == "" {
		return fmt.Errorf("DISCORD_NOTES_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) ShotGridEnabled() bool {
	return c.ShotGridURL != "" && c.ShotGridScriptName != "" && c.ShotGridAPIKey != ""
}

// ClientConfig configures the dailynotes command line client.
type ClientConfig struct {
	Env                   string
	BackendURL            string
	VexaAPIURL            string
	VexaAPIKey            string
	BotName               string
	TranscriptionLanguage string
	PollInterval          time.Duration
	OutboundTimeout       time.Duration
	OutboundRetryAttempts int
	OutboundRetryDelay    time.Duration
}

func (c *ClientConfig) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("DAILYNOTES_BACKEND_URL is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("TRANSCRIPT_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	return validateOutbound(c.OutboundTimeout, c.OutboundRetryAttempts)
}

// ValidateMeeting checks the settings only the meeting command needs.
func (c *ClientConfig) ValidateMeeting() error {
	if c.VexaAPIURL == "" {
		return fmt.Errorf("VEXA_API_URL is required")
	}
	if c.VexaAPIKey == "" {
		return fmt.Errorf("VEXA_API_KEY is required")
	}
	return nil
}

func (c *ClientConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func validateOutbound(timeout time.Duration, attempts int) error {
	if timeout <= 0 {
		return fmt.Errorf("OUTBOUND_TIMEOUT must be positive, got %s", timeout)
	}
	if attempts <= 0 {
		return fmt.Errorf("OUTBOUND_RETRY_ATTEMPTS must be positive, got %d", attempts)
	}
	return nil
}

func countNonEmpty(values []string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}
