package embedding

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Dimensions is the fixed size of every embedding vector in the system.
const Dimensions = 768

// ErrRateLimited marks provider errors that are worth retrying after a pause.
var ErrRateLimited = errors.New("embedding: rate limited")

type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// IsRateLimited reports whether err is a rate-limit response from the provider.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
