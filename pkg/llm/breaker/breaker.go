// Package breaker guards an LLM backend with a circuit breaker so a dead backend is
// skipped quickly instead of costing a full timeout on every request.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moodflix-be/pkg/llm"

	gobreaker "github.com/sony/gobreaker/v2"
)

type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	OnStateChange    func(name string, from, to string)
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

type Provider struct {
	inner llm.LLMProvider
	cb    *gobreaker.CircuitBreaker[string]
}

var _ llm.LLMProvider = &Provider{}

func Wrap(inner llm.LLMProvider, cfg Config) *Provider {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}
	return &Provider{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[string](settings),
	}
}

// State reports the breaker state ("closed", "half-open", "open").
func (p *Provider) State() string {
	return p.cb.State().String()
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.execute(func() (string, error) {
		return p.inner.Chat(ctx, history, opts...)
	})
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.execute(func() (string, error) {
		return p.inner.Generate(ctx, prompt, opts...)
	})
}

func (p *Provider) execute(fn func() (string, error)) (string, error) {
	out, err := p.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	return out, err
}
