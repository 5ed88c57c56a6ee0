package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/metrics"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	mongorepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/mongo"
	pgrepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/postgres"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

type OutcomeStatus string

const (
	OutcomeRouted      OutcomeStatus = "routed"
	OutcomeRecorded    OutcomeStatus = "recorded"
	OutcomeInjection   OutcomeStatus = "injection"
	OutcomeUnsupported OutcomeStatus = "unsupported_language"
	OutcomeNoText      OutcomeStatus = "no_text"
)

// Outcome is the result of one pipeline run. Record is nil only for OutcomeNoText.
type Outcome struct {
	Status      OutcomeStatus    `json:"status"`
	MessageUUID string           `json:"message_uuid"`
	Record      *models.AIResult `json:"record,omitempty"`
	Route       *RouteResult     `json:"route,omitempty"`
	RouteError  string           `json:"route_error,omitempty"`
}

// MessageResults is everything the pipeline wrote about a message.
type MessageResults struct {
	MessageUUID string                  `json:"message_uuid"`
	Verdicts    []models.InjectResult   `json:"verdicts"`
	Records     []models.AIResult       `json:"records"`
	Traces      []models.ReasoningTrace `json:"traces,omitempty"`
}

type AnalysisService interface {
	ProcessMessage(ctx context.Context, messageUUID string) (*Outcome, error)
	Results(ctx context.Context, messageUUID string) (*MessageResults, error)
}

// CandidateFinder is satisfied by *analysis.CandidateSearch.
type CandidateFinder interface {
	SearchWithFallback(ctx context.Context, vector []float32, lang analysis.Language) []analysis.Candidate
}

type AnalysisDeps struct {
	Messages    pgrepo.MessageRepository
	Analyses    pgrepo.AnalysisRepository
	Traces      mongorepo.TraceRepository // optional
	Departments DepartmentService
	Embedder    analysis.Embedder
	Search      CandidateFinder
	Reasoner    analysis.Reasoner
	Router      RouterService
	Now         func() time.Time
	Logger      *logrus.Logger
}

type analysisService struct {
	messages pgrepo.MessageRepository
	analyses pgrepo.AnalysisRepository
	traces   mongorepo.TraceRepository
	embedder analysis.Embedder
	search   CandidateFinder
	reasoner analysis.Reasoner
	router   RouterService
	recorder *resultRecorder
	now      func() time.Time
	logger   *logrus.Logger
}

func NewAnalysisService(d AnalysisDeps) AnalysisService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &analysisService{
		messages: d.Messages,
		analyses: d.Analyses,
		traces:   d.Traces,
		embedder: d.Embedder,
		search:   d.Search,
		reasoner: d.Reasoner,
		router:   d.Router,
		recorder: &resultRecorder{
			analyses:    d.Analyses,
			departments: d.Departments,
			now:         d.Now,
			logger:      d.Logger,
		},
		now:    d.Now,
		logger: d.Logger,
	}
}

func (s *analysisService) ProcessMessage(ctx context.Context, messageUUID string) (*Outcome, error) {
	const op = "AnalysisService.ProcessMessage"

	if messageUUID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message_uuid is required", nil)
	}

	run := &pipelineRun{start: s.now()}
	msg, err := s.messages.GetByUUID(ctx, messageUUID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "message not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get message", err)
	}
	run.message = msg
	run.text = msg.AnalysisText()

	log := s.logger.WithFields(logrus.Fields{"message_id": messageUUID, "session_id": msg.SessionUUID})

	if run.text == "" {
		log.Warn("message has no text content")
		return s.finish(&Outcome{Status: OutcomeNoText, MessageUUID: messageUUID}), nil
	}

	run.verdict = analysis.Screen(run.text)
	if err := s.recorder.recordVerdict(ctx, run); err != nil {
		return nil, err
	}
	if run.verdict.Flagged {
		log.WithField("pattern", run.verdict.Pattern).Warn("injection detected, stopping")
		rec, err := s.recorder.recordTerminal(ctx, run, reasonInjection)
		if err != nil {
			return nil, err
		}
		return s.finish(&Outcome{Status: OutcomeInjection, MessageUUID: messageUUID, Record: rec}), nil
	}

	run.lang = analysis.DetectLanguage(run.text)
	log = log.WithField("lang", run.lang)
	if !run.lang.Supported() {
		log.Warn("unsupported language, stopping")
		rec, err := s.recorder.recordTerminal(ctx, run, reasonUnsupported+string(run.lang))
		if err != nil {
			return nil, err
		}
		return s.finish(&Outcome{Status: OutcomeUnsupported, MessageUUID: messageUUID, Record: rec}), nil
	}

	run.vector = s.embedder.Embed(ctx, run.text)
	run.candidates = s.search.SearchWithFallback(ctx, run.vector, run.lang)
	run.classification = s.reasoner.Classify(ctx, analysis.ClassifyRequest{
		MessageID:  messageUUID,
		Text:       run.text,
		Candidates: run.candidates,
	})

	rec, err := s.recorder.record(ctx, run)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Status: OutcomeRecorded, MessageUUID: messageUUID, Record: rec}
	log.WithFields(logrus.Fields{
		"candidates":  len(run.candidates),
		"resolution":  rec.DepartmentResolution,
		"duration_ms": rec.ProcessDurationMS,
	}).Info("analysis recorded")

	if run.department == nil || s.router == nil {
		return s.finish(out), nil
	}

	route, err := s.router.Route(ctx, run.department.ID, messageUUID)
	if err != nil {
		log.WithError(err).WithField("department_id", run.department.ID).Error("routing failed")
		out.RouteError = err.Error()
		return s.finish(out), nil
	}
	out.Status = OutcomeRouted
	out.Route = route
	return s.finish(out), nil
}

func (s *analysisService) finish(o *Outcome) *Outcome {
	metrics.Outcomes.WithLabelValues(string(o.Status)).Inc()
	return o
}

func (s *analysisService) Results(ctx context.Context, messageUUID string) (*MessageResults, error) {
	const op = "AnalysisService.Results"

	if messageUUID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message_uuid is required", nil)
	}

	verdicts, err := s.analyses.ListInjectResults(ctx, messageUUID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list verdicts", err)
	}
	records, err := s.analyses.ListAIResults(ctx, messageUUID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list analysis records", err)
	}
	if len(verdicts) == 0 && len(records) == 0 {
		return nil, utils.E(utils.CodeNotFound, op, "no analysis for message", utils.ErrNotFound)
	}

	out := &MessageResults{MessageUUID: messageUUID, Verdicts: verdicts, Records: records}
	if s.traces != nil {
		traces, err := s.traces.ListByMessage(ctx, messageUUID, 20)
		if err != nil {
			s.logger.WithError(err).WithField("message_id", messageUUID).Warn("trace lookup failed")
		} else {
			out.Traces = traces
		}
	}
	return out, nil
}
