// Package provider implements translate.Translator on top of AI chat APIs:
// OpenAI (through an eino chat model), Groq, Google AI (Gemini), Anthropic,
// Ollama and any OpenAI-compatible endpoint.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/minios-linux/potrans/translate"
)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderOpenAI       = "openai"
	ProviderGroq         = "groq"
	ProviderGoogle       = "google"
	ProviderAnthropic    = "anthropic"
	ProviderOllama       = "ollama"
	ProviderCustomOpenAI = "custom-openai"
)

// ErrStatus is wrapped by errors for non-success HTTP responses.
var ErrStatus = errors.New("unexpected API status")

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for an AI translation service.
type Provider struct {
	// ID is the provider identifier (openai, groq, google, etc.).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for local services).
	APIKey string
	// Model is the model identifier.
	Model string
	// DefaultModel is used when Model is empty.
	DefaultModel string
	// NeedsKey reports whether requests fail without an API key.
	NeedsKey bool
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderOpenAI: {
			ID:           ProviderOpenAI,
			Name:         "OpenAI",
			BaseURL:      "https://api.openai.com/v1",
			DefaultModel: "gpt-4o",
			NeedsKey:     true,
			Timeout:      120 * time.Second,
		},
		ProviderGroq: {
			ID:           ProviderGroq,
			Name:         "Groq",
			BaseURL:      "https://api.groq.com/openai/v1",
			DefaultModel: "llama-3.3-70b-versatile",
			NeedsKey:     true,
			Timeout:      60 * time.Second,
		},
		ProviderGoogle: {
			ID:           ProviderGoogle,
			Name:         "Google AI (Gemini)",
			BaseURL:      "https://generativelanguage.googleapis.com",
			DefaultModel: "gemini-2.0-flash",
			NeedsKey:     true,
			Timeout:      120 * time.Second,
		},
		ProviderAnthropic: {
			ID:           ProviderAnthropic,
			Name:         "Anthropic",
			BaseURL:      "https://api.anthropic.com/v1",
			DefaultModel: "claude-3-5-haiku-latest",
			NeedsKey:     true,
			Timeout:      120 * time.Second,
		},
		ProviderOllama: {
			ID:           ProviderOllama,
			Name:         "Ollama",
			BaseURL:      "http://localhost:11434/v1",
			DefaultModel: "llama3.1",
			Timeout:      300 * time.Second,
		},
		ProviderCustomOpenAI: {
			ID:      ProviderCustomOpenAI,
			Name:    "Custom OpenAI",
			Timeout: 60 * time.Second,
		},
	}
}

// IDs returns the provider IDs in display order.
func IDs() []string {
	return []string{ProviderOpenAI, ProviderGroq, ProviderGoogle, ProviderAnthropic, ProviderOllama, ProviderCustomOpenAI}
}

// Lookup returns the default definition of a provider.
func Lookup(id string) (Provider, bool) {
	p, ok := DefaultProviders()[id]
	return p, ok
}

// Validate checks that the provider can be used.
func (p Provider) Validate() error {
	if _, ok := DefaultProviders()[p.ID]; !ok {
		return fmt.Errorf("unknown provider %q (available: %s)", p.ID, strings.Join(IDs(), ", "))
	}
	if p.BaseURL == "" {
		return fmt.Errorf("provider %s requires a base URL", p.ID)
	}
	if p.NeedsKey && p.APIKey == "" {
		return fmt.Errorf("provider %s requires an API key", p.ID)
	}
	if p.effectiveModel() == "" {
		return fmt.Errorf("provider %s requires a model", p.ID)
	}
	return nil
}

func (p Provider) effectiveModel() string {
	if p.Model != "" {
		return p.Model
	}
	return p.DefaultModel
}

// ---------------------------------------------------------------------------
// Client options
// ---------------------------------------------------------------------------

// Options controls request behavior shared by all providers.
type Options struct {
	// SystemPrompt overrides DefaultSystemPrompt. "{{targetLang}}" is
	// replaced with the target language name.
	SystemPrompt string
	// MaxRetries is the number of retries on transport errors, 5xx and 429
	// responses. Default: 3.
	MaxRetries int
	// Timeout overrides the provider timeout when set.
	Timeout time.Duration
	// Temperature is the sampling temperature. Default: 0.3.
	Temperature float64
	// Logger receives request-level debug logs; nil means no logging.
	Logger *zap.Logger
	// BackoffBase is the first exponential backoff step. Default: 1s.
	BackoffBase time.Duration
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

func (o *Options) effectiveTemperature() float64 {
	if o.Temperature > 0 {
		return o.Temperature
	}
	return 0.3
}

func (o *Options) effectiveBackoff() time.Duration {
	if o.BackoffBase > 0 {
		return o.BackoffBase
	}
	return time.Second
}

func (o *Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// completer sends one system/user prompt pair and returns the reply text.
type completer func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Client translates batches of texts through one provider. It implements
// translate.Translator.
type Client struct {
	prov     Provider
	opts     Options
	complete completer
}

var _ translate.Translator = (*Client)(nil)

// New creates a client for the provider. OpenAI uses an eino chat model;
// every other provider goes through the HTTP client.
func New(ctx context.Context, prov Provider, opts Options) (*Client, error) {
	if prov.Model == "" {
		prov.Model = prov.DefaultModel
	}
	if opts.Timeout > 0 {
		prov.Timeout = opts.Timeout
	}
	if err := prov.Validate(); err != nil {
		return nil, err
	}

	c := &Client{prov: prov, opts: opts}
	switch prov.ID {
	case ProviderOpenAI:
		complete, err := newChatModelCompleter(ctx, prov, opts)
		if err != nil {
			return nil, err
		}
		c.complete = complete
	case ProviderGoogle:
		c.complete = newHTTPCompleter(prov, opts, formatGeminiNative)
	case ProviderAnthropic:
		c.complete = newHTTPCompleter(prov, opts, formatAnthropic)
	default:
		c.complete = newHTTPCompleter(prov, opts, formatOpenAIChat)
	}
	return c, nil
}

// Provider returns the resolved provider configuration.
func (c *Client) Provider() Provider {
	return c.prov
}

// Translate sends texts as one numbered prompt and parses the JSON array
// reply.
func (c *Client) Translate(ctx context.Context, texts []string, target translate.Target) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	systemPrompt := ResolvePrompt(c.opts.SystemPrompt, target.Name)
	userPrompt := BuildUserPrompt(texts)

	c.opts.logger().Debug("translating batch",
		zap.String("provider", c.prov.ID),
		zap.String("model", c.prov.Model),
		zap.String("locale", target.Locale),
		zap.Int("texts", len(texts)),
	)

	text, err := c.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	return ParseTranslations(text, len(texts))
}
