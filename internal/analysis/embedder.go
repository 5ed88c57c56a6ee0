package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/metrics"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/embedding"
)

// ResilientEmbedder wraps an embedding.Provider so that callers always get a
// vector of embedding.Dimensions. Rate limits are retried per Policy; every
// other failure yields the zero vector.
type ResilientEmbedder struct {
	Provider embedding.Provider
	Policy   RetryPolicy
	Logger   *logrus.Logger
}

func NewResilientEmbedder(p embedding.Provider, policy RetryPolicy, l *logrus.Logger) *ResilientEmbedder {
	if l == nil {
		l = logrus.New()
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &ResilientEmbedder{Provider: p, Policy: policy, Logger: l}
}

// ZeroVector returns a zero vector of the system dimensionality.
func ZeroVector() []float32 { return make([]float32, embedding.Dimensions) }

// IsZero reports whether every component of v is zero.
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func (e *ResilientEmbedder) Embed(ctx context.Context, text string) []float32 {
	defer metrics.ObserveStage("embedding", time.Now())

	if e.Provider == nil {
		e.Logger.Error("embedding provider not configured")
		metrics.EmbeddingDegraded.WithLabelValues("unconfigured").Inc()
		return ZeroVector()
	}

	for attempt := 1; attempt <= e.Policy.MaxAttempts; attempt++ {
		vec, err := e.Provider.Embed(ctx, text)
		if err == nil && len(vec) != embedding.Dimensions {
			err = fmt.Errorf("embedding: got %d dimensions, want %d", len(vec), embedding.Dimensions)
		}
		if err == nil {
			return vec
		}

		if !embedding.IsRateLimited(err) {
			e.Logger.WithError(err).Error("embedding failed")
			metrics.EmbeddingDegraded.WithLabelValues("error").Inc()
			return ZeroVector()
		}

		if attempt == e.Policy.MaxAttempts {
			break
		}
		wait := time.Duration(0)
		if e.Policy.Backoff != nil {
			wait = e.Policy.Backoff(attempt)
		}
		e.Logger.WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": e.Policy.MaxAttempts,
			"wait_ms":      wait.Milliseconds(),
		}).Warn("embedding rate limited, backing off")
		metrics.EmbeddingRetries.Inc()
		e.Policy.wait(attempt)
	}

	e.Logger.WithField("attempts", e.Policy.MaxAttempts).Error("embedding failed after retries")
	metrics.EmbeddingDegraded.WithLabelValues("exhausted").Inc()
	return ZeroVector()
}
