package ai

import "context"

// Client sends a base64 encoded image to the remote model and returns the raw reply text.
type Client interface {
	Analyze(ctx context.Context, imageBase64 string) (string, error)
}
