package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/embedding"
)

type scriptedProvider struct {
	results []error
	vec     []float32
	calls   int
}

func (p *scriptedProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	i := p.calls
	p.calls++
	if i < len(p.results) && p.results[i] != nil {
		return nil, p.results[i]
	}
	return p.vec, nil
}

func (p *scriptedProvider) Close() error { return nil }

func unitVector() []float32 {
	v := make([]float32, embedding.Dimensions)
	v[0] = 1
	return v
}

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

func recordingPolicy(waits *[]time.Duration) RetryPolicy {
	p := DefaultEmbeddingRetry()
	p.Sleep = func(d time.Duration) { *waits = append(*waits, d) }
	return p
}

func TestEmbedSuccess(t *testing.T) {
	p := &scriptedProvider{vec: unitVector()}
	e := NewResilientEmbedder(p, DefaultEmbeddingRetry().NoDelay(), quietLogger())

	v := e.Embed(context.Background(), "salom")
	assert.Len(t, v, embedding.Dimensions)
	assert.False(t, IsZero(v))
	assert.Equal(t, 1, p.calls)
}

func TestEmbedRetriesRateLimitWithLinearBackoff(t *testing.T) {
	rl := fmt.Errorf("%w: quota", embedding.ErrRateLimited)
	p := &scriptedProvider{results: []error{rl, rl, nil}, vec: unitVector()}

	var waits []time.Duration
	e := NewResilientEmbedder(p, recordingPolicy(&waits), quietLogger())

	v := e.Embed(context.Background(), "salom")
	assert.False(t, IsZero(v))
	assert.Equal(t, 3, p.calls)
	assert.Equal(t, []time.Duration{20 * time.Second, 40 * time.Second}, waits)
}

func TestEmbedExhaustsRetries(t *testing.T) {
	rl := errors.New("rpc error: code = ResourceExhausted desc = 429")
	p := &scriptedProvider{results: []error{rl, rl, rl, rl, rl, rl}}

	var waits []time.Duration
	e := NewResilientEmbedder(p, recordingPolicy(&waits), quietLogger())

	v := e.Embed(context.Background(), "salom")
	require.Len(t, v, embedding.Dimensions)
	assert.True(t, IsZero(v))
	assert.Equal(t, 5, p.calls)
	assert.Len(t, waits, 4)
	assert.Equal(t, 80*time.Second, waits[3])
}

func TestEmbedOtherErrorAbortsImmediately(t *testing.T) {
	p := &scriptedProvider{results: []error{errors.New("permission denied")}}

	var waits []time.Duration
	e := NewResilientEmbedder(p, recordingPolicy(&waits), quietLogger())

	v := e.Embed(context.Background(), "salom")
	assert.True(t, IsZero(v))
	assert.Len(t, v, embedding.Dimensions)
	assert.Equal(t, 1, p.calls)
	assert.Empty(t, waits)
}

func TestEmbedWrongDimensionsDegrades(t *testing.T) {
	p := &scriptedProvider{vec: []float32{1, 2, 3}}
	e := NewResilientEmbedder(p, DefaultEmbeddingRetry().NoDelay(), quietLogger())

	v := e.Embed(context.Background(), "salom")
	assert.Len(t, v, embedding.Dimensions)
	assert.True(t, IsZero(v))
	assert.Equal(t, 1, p.calls)
}

func TestEmbedNilProvider(t *testing.T) {
	e := NewResilientEmbedder(nil, DefaultEmbeddingRetry(), quietLogger())
	assert.True(t, IsZero(e.Embed(context.Background(), "salom")))
}

func TestLinearBackoff(t *testing.T) {
	b := LinearBackoff(20 * time.Second)
	assert.Equal(t, 20*time.Second, b(1))
	assert.Equal(t, 100*time.Second, b(5))
}
