package service

import "context"

// TextGenerator asks a hosted generative model for a JSON answer.
type TextGenerator interface {
	// GenerateJSON sends prompt and decodes the model's JSON reply into out.
	// Implementations bound every call with a timeout.
	GenerateJSON(ctx context.Context, prompt string, out any) error
}
