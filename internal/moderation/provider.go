package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ErrProviderUnavailable means the external provider could not produce a result.
// Callers recover from it by falling back to local screening.
var ErrProviderUnavailable = errors.New("moderation provider unavailable")

// ProviderResult is the classification returned by the external provider
type ProviderResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"categoryScores"`
}

// FlaggedCategories returns the sorted names of categories set to true
func (r *ProviderResult) FlaggedCategories() []string {
	var out []string
	for name, hit := range r.Categories {
		if hit {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Provider classifies text through an external service
type Provider interface {
	Moderate(ctx context.Context, text string) (*ProviderResult, error)
}

// ProviderConfig configures the HTTP moderation provider
type ProviderConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// HTTPProvider calls a moderation endpoint accepting {"text": "..."}
type HTTPProvider struct {
	cfg     ProviderConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewHTTPProvider creates an HTTP provider guarded by a circuit breaker.
// An empty endpoint yields a provider that always reports ErrProviderUnavailable.
func NewHTTPProvider(cfg ProviderConfig, log zerolog.Logger) *HTTPProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	log = log.With().Str("component", "moderation_provider").Logger()

	settings := gobreaker.Settings{
		Name:        "moderation-provider",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		// A caller giving up is not a provider failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
		},
	}

	return &HTTPProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// Configured reports whether an endpoint and key are set
func (p *HTTPProvider) Configured() bool {
	return p.cfg.Endpoint != "" && p.cfg.APIKey != ""
}

// Moderate sends text to the provider. Every failure is reported as
// ErrProviderUnavailable wrapping the cause.
func (p *HTTPProvider) Moderate(ctx context.Context, text string) (*ProviderResult, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("%w: not configured", ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.call(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return out.(*ProviderResult), nil
}

func (p *HTTPProvider) call(ctx context.Context, text string) (*ProviderResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result ProviderResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
