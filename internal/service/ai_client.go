package service

import "context"

// TextGenerator is the upstream "prompt in, text out" capability.
// Implementations return an error for transport failures; wrap with
// retry.Permanent when retrying cannot help.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Compile-time interface check
var _ TextGenerator = (*GeminiClient)(nil)
