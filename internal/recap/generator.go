// Package recap turns a week of journal entries into a natural-language recap
// through a text-generation backend.
package recap

import (
	"context"
	"fmt"

	"moodjournal/internal/models"
)

// Generator produces recap text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Disabled is used when no provider is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("recap generation disabled: %w", models.ErrGeneratorUnavailable)
}
