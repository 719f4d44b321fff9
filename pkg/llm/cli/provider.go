// Package cli runs a local model through its command-line front end, one process per
// call (`ollama run <model> <prompt>` by default).
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"moodflix-be/pkg/llm"
)

type CLIProvider struct {
	Binary    string
	ModelName string
}

var _ llm.LLMProvider = &CLIProvider{}

func NewCLIProvider(binary, modelName string) *CLIProvider {
	if binary == "" {
		binary = "ollama"
	}
	return &CLIProvider{Binary: binary, ModelName: modelName}
}

func (p *CLIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var parts []string
	for _, m := range history {
		if len(m.Images) > 0 {
			return "", errors.New("cli provider does not accept images")
		}
		parts = append(parts, m.Content)
	}
	return p.Generate(ctx, strings.Join(parts, "\n\n"), opts...)
}

// Generate blocks until the process exits or ctx is done; the process is killed on
// cancellation. A non-zero exit is an error carrying stderr.
func (p *CLIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{}, opts...)
	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	args := []string{"run", model}
	if options.Format != "" {
		args = append(args, "--format", options.Format)
	}
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, p.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s run: %w", p.Binary, ctx.Err())
		}
		return "", fmt.Errorf("%s run: %w: %s", p.Binary, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
