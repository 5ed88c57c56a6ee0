package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	pgrepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/postgres"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

const (
	reasonInjection   = "Injection detected"
	reasonUnsupported = "Unsupported language: "
)

// pipelineRun carries the state of one message through the stages.
type pipelineRun struct {
	start   time.Time
	message *models.Message
	text    string

	verdict        analysis.Verdict
	lang           analysis.Language
	vector         []float32
	candidates     []analysis.Candidate
	classification analysis.Classification

	// set by the recorder
	department *models.Department
}

// resultRecorder turns a finished or short-circuited run into an AIResult.
type resultRecorder struct {
	analyses    pgrepo.AnalysisRepository
	departments DepartmentService
	now         func() time.Time
	logger      *logrus.Logger
}

func (r *resultRecorder) recordVerdict(ctx context.Context, run *pipelineRun) error {
	const op = "ResultRecorder.RecordVerdict"

	details, err := json.Marshal(run.verdict.Details())
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to encode verdict details", err)
	}
	row := &models.InjectResult{
		MessageUUID: run.message.MessageUUID,
		IsInjection: run.verdict.Flagged,
		Details:     datatypes.JSON(details),
		CreatedAt:   r.now().UTC(),
	}
	if err := r.analyses.InsertInjectResult(ctx, row); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save security verdict", err)
	}
	return nil
}

// recordTerminal writes the record of a run stopped before embedding.
func (r *resultRecorder) recordTerminal(ctx context.Context, run *pipelineRun, reason string) (*models.AIResult, error) {
	const op = "ResultRecorder.RecordTerminal"

	now := r.now().UTC()
	row := &models.AIResult{
		SessionUUID:          run.message.SessionUUID,
		MessageUUID:          run.message.MessageUUID,
		IsInjection:          run.verdict.Flagged,
		Language:             string(run.lang),
		Reason:               &reason,
		DepartmentResolution: models.ResolutionNone,
		VectorTopCandidates:  datatypes.JSON("[]"),
		AIProcessedAt:        now,
		ProcessDurationMS:    now.Sub(run.start).Milliseconds(),
		CreatedAt:            now,
	}
	if err := r.analyses.InsertAIResult(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save analysis record", err)
	}
	return row, nil
}

// record writes the full decision trail and sets run.department when the
// suggestion maps to a live department.
func (r *resultRecorder) record(ctx context.Context, run *pipelineRun) (*models.AIResult, error) {
	const op = "ResultRecorder.Record"

	candidates := run.candidates
	if candidates == nil {
		candidates = []analysis.Candidate{}
	}
	cj, err := json.Marshal(candidates)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode candidates", err)
	}

	c := run.classification
	vec := pgvector.NewVector(run.vector)
	row := &models.AIResult{
		SessionUUID:             run.message.SessionUUID,
		MessageUUID:             run.message.MessageUUID,
		IsInjection:             false,
		Language:                string(run.lang),
		MessageType:             c.MessageType,
		RoutingConfidence:       c.Confidence,
		SuggestedDepartmentName: c.SuggestedDepartmentName,
		SuggestedDepartmentID:   c.SuggestedDepartmentID,
		DepartmentResolution:    models.ResolutionNone,
		Reason:                  c.Reason,
		Explanation:             c.Explanation,
		VectorSimilarityScore:   analysis.TopScore(run.candidates),
		VectorTopCandidates:     datatypes.JSON(cj),
		MessageRawEmbedding:     &vec,
	}

	if c.SuggestedDepartmentID != nil {
		if dept := r.resolve(ctx, run, *c.SuggestedDepartmentID); dept != nil {
			row.ResolvedDepartmentID = &dept.ID
			row.DepartmentResolution = models.ResolutionResolved
			run.department = dept
		} else {
			row.DepartmentResolution = models.ResolutionUnresolved
		}
	}

	now := r.now().UTC()
	row.AIProcessedAt = now
	row.CreatedAt = now
	row.ProcessDurationMS = now.Sub(run.start).Milliseconds()

	if err := r.analyses.InsertAIResult(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save analysis record", err)
	}
	return row, nil
}

func (r *resultRecorder) resolve(ctx context.Context, run *pipelineRun, id int64) *models.Department {
	log := r.logger.WithFields(logrus.Fields{"message_id": run.message.MessageUUID, "department_id": id})

	dept, err := r.departments.GetLive(ctx, id)
	switch {
	case utils.IsCode(err, utils.CodeNotFound), utils.IsCode(err, utils.CodeInvalidArgument):
		log.Warn("suggested department not found")
		return nil
	case err != nil:
		log.WithError(err).Error("suggested department lookup failed")
		return nil
	case !dept.Live():
		log.Warn("suggested department is inactive or deleted")
		return nil
	}
	return dept
}
