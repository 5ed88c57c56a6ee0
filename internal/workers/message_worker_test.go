package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Natenyt/AI-Powered-Government-System/internal/services"
)

type stubRouter struct {
	handled bool
	err     error
	calls   int
}

func (s *stubRouter) Route(context.Context, int64, string) (*services.RouteResult, error) {
	return nil, nil
}

func (s *stubRouter) Precheck(context.Context, string, string) (bool, error) {
	s.calls++
	return s.handled, s.err
}

type stubAnalysis struct{ processed []string }

func (s *stubAnalysis) ProcessMessage(_ context.Context, id string) (*services.Outcome, error) {
	s.processed = append(s.processed, id)
	return &services.Outcome{Status: services.OutcomeRecorded, MessageUUID: id}, nil
}

func (s *stubAnalysis) Results(context.Context, string) (*services.MessageResults, error) {
	return nil, nil
}

func newPool(r *stubRouter, a *stubAnalysis) *MessageWorkerPool {
	l, _ := test.NewNullLogger()
	return &MessageWorkerPool{Router: r, Analysis: a, Logger: l}
}

func entry(values map[string]any) redis.XMessage {
	return redis.XMessage{ID: "1-0", Values: values}
}

func TestHandleRunsPipelineWhenNotHandled(t *testing.T) {
	r, a := &stubRouter{}, &stubAnalysis{}
	newPool(r, a).Handle(context.Background(), entry(map[string]any{"message_uuid": "m1", "session_uuid": "s1"}))

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, []string{"m1"}, a.processed)
}

func TestHandleSkipsPipelineWhenPrechecked(t *testing.T) {
	r, a := &stubRouter{handled: true}, &stubAnalysis{}
	newPool(r, a).Handle(context.Background(), entry(map[string]any{"message_uuid": "m1"}))

	assert.Empty(t, a.processed)
}

func TestHandlePrecheckError(t *testing.T) {
	r, a := &stubRouter{err: errors.New("db down")}, &stubAnalysis{}
	newPool(r, a).Handle(context.Background(), entry(map[string]any{"message_uuid": "m1"}))

	assert.Empty(t, a.processed)
}

func TestHandleIgnoresMalformedEntry(t *testing.T) {
	r, a := &stubRouter{}, &stubAnalysis{}
	newPool(r, a).Handle(context.Background(), entry(map[string]any{"session_uuid": "s1"}))

	assert.Zero(t, r.calls)
	assert.Empty(t, a.processed)
}

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

func TestStartFailsWhenGroupCannotBeCreated(t *testing.T) {
	l, hook := test.NewNullLogger()
	rdb := unreachableRedis()
	defer rdb.Close()

	p := &MessageWorkerPool{Redis: rdb, Router: &stubRouter{}, Analysis: &stubAnalysis{}, Logger: l}
	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, messages(hook), "consumer group create failed")

	p.Wait()
}

func TestConsumerLogsReadErrorsAndStopsOnCancel(t *testing.T) {
	l, hook := test.NewNullLogger()
	rdb := unreachableRedis()
	defer rdb.Close()

	p := &MessageWorkerPool{Redis: rdb, Router: &stubRouter{}, Analysis: &stubAnalysis{}, Logger: l,
		Stream: DefaultStream, Group: DefaultGroup}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runConsumer(ctx, "c-1")
	}()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
	assert.Contains(t, messages(hook), "stream read failed")
}

func TestIsBusyGroup(t *testing.T) {
	assert.True(t, isBusyGroup(errors.New("BUSYGROUP Consumer Group name already exists")))
	assert.False(t, isBusyGroup(errors.New("dial tcp 127.0.0.1:1: connect: connection refused")))
}
