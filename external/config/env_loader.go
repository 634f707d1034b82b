package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/dailynotes/internal/config"
)

type envConfig struct {
	Env                   string        `env:"ENV" envDefault:"production"`
	HTTPAddr              string        `env:"HTTP_ADDR" envDefault:":8000"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	StoreBackend          string        `env:"STORE_BACKEND" envDefault:"memory"`
	DatabaseURL           string        `env:"DATABASE_URL"`
	OutboundTimeout       time.Duration `env:"OUTBOUND_TIMEOUT" envDefault:"30s"`
	OutboundRetryAttempts int           `env:"OUTBOUND_RETRY_ATTEMPTS" envDefault:"3"`
	OutboundRetryDelay    time.Duration `env:"OUTBOUND_RETRY_DELAY" envDefault:"500ms"`
	LLMDefaultProvider    string        `env:"LLM_DEFAULT_PROVIDER"`
	LLMPrompt             string        `env:"LLM_PROMPT"`
	AnthropicAPIKey       string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel        string        `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5"`
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"`
	OpenAIModel           string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL         string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ShotGridURL           string        `env:"SHOTGRID_URL"`
	ShotGridScriptName    string        `env:"SHOTGRID_SCRIPT_NAME"`
	ShotGridAPIKey        string        `env:"SHOTGRID_API_KEY"`
	GmailSender           string        `env:"GMAIL_SENDER"`
	GmailCredentialsFile  string        `env:"GMAIL_CREDENTIALS_FILE" envDefault:"client_secret.json"`
	GmailTokenFile        string        `env:"GMAIL_TOKEN_FILE" envDefault:"token.json"`
	DiscordToken          string        `env:"DISCORD_TOKEN"`
	DiscordNotesChannelID string        `env:"DISCORD_NOTES_CHANNEL_ID"`
	NotesWebhookURL       string        `env:"NOTES_WEBHOOK_URL"`
}

type clientEnvConfig struct {
	Env                   string        `env:"ENV" envDefault:"production"`
	BackendURL            string        `env:"DAILYNOTES_BACKEND_URL" envDefault:"http://localhost:8000"`
	VexaAPIURL            string        `env:"VEXA_API_URL" envDefault:"https://devapi.dev.vexa.ai"`
	VexaAPIKey            string        `env:"VEXA_API_KEY"`
	BotName               string        `env:"VEXA_BOT_NAME" envDefault:"DNA Assistant"`
	TranscriptionLanguage string        `env:"TRANSCRIPTION_LANGUAGE" envDefault:"auto"`
	PollInterval          time.Duration `env:"TRANSCRIPT_POLL_INTERVAL" envDefault:"5s"`
	OutboundTimeout       time.Duration `env:"OUTBOUND_TIMEOUT" envDefault:"10s"`
	OutboundRetryAttempts int           `env:"OUTBOUND_RETRY_ATTEMPTS" envDefault:"3"`
	OutboundRetryDelay    time.Duration `env:"OUTBOUND_RETRY_DELAY" envDefault:"500ms"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                   raw.Env,
		HTTPAddr:              raw.HTTPAddr,
		ShutdownTimeout:       raw.ShutdownTimeout,
		StoreBackend:          raw.StoreBackend,
		DatabaseURL:           raw.DatabaseURL,
		OutboundTimeout:       raw.OutboundTimeout,
		OutboundRetryAttempts: raw.OutboundRetryAttempts,
		OutboundRetryDelay:    raw.OutboundRetryDelay,
		LLMDefaultProvider:    raw.LLMDefaultProvider,
		LLMPrompt:             raw.LLMPrompt,
		AnthropicAPIKey:       raw.AnthropicAPIKey,
		AnthropicModel:        raw.AnthropicModel,
		OpenAIAPIKey:          raw.OpenAIAPIKey,
		OpenAIModel:           raw.OpenAIModel,
		OpenAIBaseURL:         raw.OpenAIBaseURL,
		ShotGridURL:           raw.ShotGridURL,
		ShotGridScriptName:    raw.ShotGridScriptName,
		ShotGridAPIKey:        raw.ShotGridAPIKey,
		GmailSender:           raw.GmailSender,
		GmailCredentialsFile:  raw.GmailCredentialsFile,
		GmailTokenFile:        raw.GmailTokenFile,
		DiscordToken:          raw.DiscordToken,
		DiscordNotesChannelID: raw.DiscordNotesChannelID,
		NotesWebhookURL:       raw.NotesWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadClient() (*internalconfig.ClientConfig, error) {
	var raw clientEnvConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.ClientConfig{
		Env:                   raw.Env,
		BackendURL:            raw.BackendURL,
		VexaAPIURL:            raw.VexaAPIURL,
		VexaAPIKey:            raw.VexaAPIKey,
		BotName:               raw.BotName,
		TranscriptionLanguage: raw.TranscriptionLanguage,
		PollInterval:          raw.PollInterval,
		OutboundTimeout:       raw.OutboundTimeout,
		OutboundRetryAttempts: raw.OutboundRetryAttempts,
		OutboundRetryDelay:    raw.OutboundRetryDelay,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
