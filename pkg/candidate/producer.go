// Package candidate produces and merges the recommendation short list: a generative
// backend proposes titles, a ranking distribution may reorder them.
package candidate

import (
	"context"
	"strings"
	"time"

	"moodflix-be/pkg/llm"
)

// DefaultTimeout bounds a single generative call.
const DefaultTimeout = 30 * time.Second

// Result is what one generation round produced.
type Result struct {
	Prompt     string
	Raw        string
	Candidates []string
	Err        error
}

type Producer struct {
	provider llm.LLMProvider
	timeout  time.Duration
	options  []llm.Option
}

func NewProducer(provider llm.LLMProvider, timeout time.Duration, options ...llm.Option) *Producer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Producer{
		provider: provider,
		timeout:  timeout,
		options:  options,
	}
}

// Produce renders the prompt, calls the backend and parses the reply. A failed or
// timed-out call is reported in Result.Err with an empty Raw and no candidates;
// it is never returned as an error.
func (p *Producer) Produce(ctx context.Context, req Request) Result {
	res := Result{Prompt: BuildPrompt(req)}
	res.Raw, res.Err = p.generate(ctx, res.Prompt)
	res.Candidates = Parse(res.Raw)
	return res
}

func (p *Producer) generate(ctx context.Context, prompt string) (string, error) {
	if p.provider == nil {
		return "", llm.ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.provider.Generate(ctx, prompt, p.options...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
