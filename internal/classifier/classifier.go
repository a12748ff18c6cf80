// Package classifier adapts LLM backends to the roles.Classifier interface.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"vizsynth/internal/roles"
)

// completer turns a prompt into raw model text.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// LLMClassifier asks a language model to map field names to roles.
type LLMClassifier struct {
	backend       completer
	provider      string
	model         string
	promptBuilder *PromptBuilder
}

func newLLMClassifier(provider, model string, backend completer) *LLMClassifier {
	return &LLMClassifier{
		backend:       backend,
		provider:      provider,
		model:         model,
		promptBuilder: &PromptBuilder{},
	}
}

// Name identifies provider and model, e.g. "gemini/gemini-2.5-flash".
func (c *LLMClassifier) Name() string {
	return c.provider + "/" + c.model
}

func (c *LLMClassifier) Classify(ctx context.Context, fieldNames, hierarchyHints []string) (roles.SignalMap, error) {
	if len(fieldNames) == 0 {
		return roles.SignalMap{}, nil
	}
	prompt := c.promptBuilder.BuildRolePrompt(fieldNames, hierarchyHints)
	text, err := c.backend.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return ParseRoleResponse(text)
}

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewClassifier builds the configured backend. Provider "none" (or "off")
// returns a nil classifier, which the engine treats as skipped.
func NewClassifier(ctx context.Context, opts Options) (*LLMClassifier, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "none", "off":
		return nil, nil
	case "gemini":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		return NewGeminiClassifier(ctx, opts.APIKey, opts.Model)
	case "openai":
		return NewOpenAIClassifier(opts.APIKey, opts.Model, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", opts.Provider)
	}
}
