package summarizer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const DefaultPrompt = `You are assisting a VFX dailies review. Summarize the following conversation
about a single shot version into concise, actionable notes for the artist.
Keep each note on its own line and omit small talk.`

var (
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrEmptyText       = errors.New("no text to summarize")
)

// Provider is one LLM vendor.
type Provider interface {
	Summarize(ctx context.Context, text, prompt string) (string, error)
}

// Registry routes summary requests to a named provider.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
	defaultPrompt   string
}

func NewRegistry(defaultProvider, defaultPrompt string) *Registry {
	if strings.TrimSpace(defaultPrompt) == "" {
		defaultPrompt = DefaultPrompt
	}
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
		defaultPrompt:   defaultPrompt,
	}
}

func (r *Registry) Register(name string, p Provider) {
	r.providers[name] = p
	if r.defaultProvider == "" {
		r.defaultProvider = name
	}
}

// Providers lists the registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Summarize uses provider, or the default provider when empty, and the default
// prompt when prompt is empty.
func (r *Registry) Summarize(ctx context.Context, provider, text, prompt string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if provider == "" {
		provider = r.defaultProvider
	}
	p, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q (configured: %s)", ErrUnknownProvider, provider, strings.Join(r.Providers(), ", "))
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = r.defaultPrompt
	}
	summary, err := p.Summarize(ctx, text, prompt)
	if err != nil {
		return "", fmt.Errorf("%s summarize: %w", provider, err)
	}
	return strings.TrimSpace(summary), nil
}
