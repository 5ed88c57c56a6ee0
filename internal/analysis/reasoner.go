package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/metrics"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/llm"
)

const DefaultReasoningTimeout = 60 * time.Second

// TraceStore persists reasoning traces. Failures are logged and ignored.
type TraceStore interface {
	InsertTrace(ctx context.Context, t *models.ReasoningTrace) error
}

// LLMReasoner asks a JSON-constrained model to pick a department among candidates.
type LLMReasoner struct {
	LLM     llm.Provider
	Traces  TraceStore
	Timeout time.Duration
	TTL     time.Duration
	Logger  *logrus.Logger
}

func NewLLMReasoner(p llm.Provider, traces TraceStore, timeout time.Duration, l *logrus.Logger) *LLMReasoner {
	if timeout <= 0 {
		timeout = DefaultReasoningTimeout
	}
	if l == nil {
		l = logrus.New()
	}
	return &LLMReasoner{LLM: p, Traces: traces, Timeout: timeout, TTL: 30 * 24 * time.Hour, Logger: l}
}

func (r *LLMReasoner) Classify(ctx context.Context, req ClassifyRequest) Classification {
	start := time.Now()
	defer metrics.ObserveStage("reasoning", start)

	log := r.Logger.WithField("message_id", req.MessageID)
	if r.LLM == nil {
		log.Error("reasoning model not configured")
		metrics.ReasoningFailures.WithLabelValues("unconfigured").Inc()
		return Classification{}
	}

	prompt, err := BuildPrompt(req.Text, req.Candidates)
	if err != nil {
		log.WithError(err).Error("build reasoning prompt")
		metrics.ReasoningFailures.WithLabelValues("prompt").Inc()
		return Classification{}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	trace := &models.ReasoningTrace{
		MessageUUID: req.MessageID,
		Model:       r.LLM.Model(),
		Prompt:      prompt,
		Timestamp:   start.UTC(),
		ExpiresAt:   start.UTC().Add(r.TTL),
	}
	defer r.saveTrace(ctx, trace, start)

	raw, err := r.LLM.GenerateJSON(callCtx, prompt)
	if err != nil {
		log.WithError(err).Error("reasoning call failed")
		metrics.ReasoningFailures.WithLabelValues("call").Inc()
		trace.Status, trace.Error = "call_failed", err.Error()
		return Classification{}
	}
	trace.Response = raw

	out, err := ParseClassification(raw)
	if err != nil {
		log.WithError(err).Warn("reasoning response is not a valid classification")
		metrics.ReasoningFailures.WithLabelValues("parse").Inc()
		trace.Status, trace.Error = "parse_failed", err.Error()
		return Classification{}
	}
	if out.Empty() {
		metrics.ReasoningFailures.WithLabelValues("empty").Inc()
		trace.Status = "empty"
		return out
	}

	trace.Status = "ok"
	return out
}

func (r *LLMReasoner) saveTrace(ctx context.Context, t *models.ReasoningTrace, start time.Time) {
	if r.Traces == nil {
		return
	}
	t.LatencyMS = time.Since(start).Milliseconds()
	if err := r.Traces.InsertTrace(ctx, t); err != nil {
		r.Logger.WithError(err).WithField("message_id", t.MessageUUID).Warn("save reasoning trace")
	}
}

// BuildPrompt renders the routing instruction with the ranked candidates.
func BuildPrompt(text string, candidates []Candidate) (string, error) {
	if candidates == nil {
		candidates = []Candidate{}
	}
	cj, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an intelligent routing assistant for a government feedback system.
Citizens write in Uzbek or Russian.

Incoming message: %q

Top candidate departments found by vector search (id, name, description, similarity score):
%s

Task:
1. Analyze the message content.
2. Choose the most appropriate department from the candidates. If none fits well, set
   suggested_department_name to "General" and suggested_department_id to null.
3. Classify the message type as one of: complaint, suggestion, inquiry.
4. Give a routing confidence between 0.0 and 1.0.
5. Give a short reason and a longer explanation.

Return only a JSON object with the keys:
message_type, routing_confidence, suggested_department_name, suggested_department_id, reason, explanation.
Use the exact name and id from the candidates when you choose one.`, text, string(cj)), nil
}

// ParseClassification decodes the model output. It tolerates markdown fences,
// numeric strings and out-of-range confidences, but rejects anything that is
// not a JSON object.
func ParseClassification(raw string) (Classification, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return Classification{}, errors.New("no json object in response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Classification{}, fmt.Errorf("decode classification: %w", err)
	}

	var c Classification
	if s := stringField(m, "message_type"); s != nil {
		lower := strings.ToLower(*s)
		c.MessageType = &lower
	}
	c.Confidence = confidenceField(m, "routing_confidence")
	if c.Confidence == nil {
		c.Confidence = confidenceField(m, "confidence")
	}
	c.SuggestedDepartmentName = stringField(m, "suggested_department_name")
	c.SuggestedDepartmentID = idField(m, "suggested_department_id")
	c.Reason = stringField(m, "reason")
	c.Explanation = stringField(m, "explanation")
	return c, nil
}

func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	i := strings.Index(s, "{")
	j := strings.LastIndex(s, "}")
	if i < 0 || j < i {
		return ""
	}
	return s[i : j+1]
}

func stringField(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func numberOf(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func confidenceField(m map[string]any, key string) *float64 {
	f, ok := numberOf(m[key])
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Max(0, math.Min(1, f))
	return &f
}

func idField(m map[string]any, key string) *int64 {
	f, ok := numberOf(m[key])
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return nil
	}
	id := int64(f)
	return &id
}
