package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Natenyt/AI-Powered-Government-System/internal/services"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

// Enqueuer hands a message to the asynchronous worker pool.
type Enqueuer interface {
	Enqueue(ctx context.Context, messageUUID, sessionUUID string) (string, error)
}

type RoutingHandler struct {
	analysis services.AnalysisService
	router   services.RouterService
	queue    Enqueuer
}

func NewRoutingHandler(analysis services.AnalysisService, router services.RouterService, queue Enqueuer) *RoutingHandler {
	return &RoutingHandler{analysis: analysis, router: router, queue: queue}
}

type PrecheckRequest struct {
	MessageUUID string `json:"message_uuid" binding:"required"`
	SessionUUID string `json:"session_uuid"`
}

type PrecheckResponse struct {
	Status              string   `json:"status"` // routed|success|failed
	Reason              string   `json:"reason,omitempty"`
	SuggestedDepartment *string  `json:"suggested_department,omitempty"`
	Confidence          *float64 `json:"confidence,omitempty"`

	Outcome *services.Outcome `json:"outcome,omitempty"`
}

// Precheck routes to an already assigned department or runs the full pipeline.
func (h *RoutingHandler) Precheck(c *gin.Context) {
	var req PrecheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RoutingHandler.Precheck", "message_uuid is required", err))
		return
	}

	ctx := c.Request.Context()
	handled, err := h.router.Precheck(ctx, req.SessionUUID, req.MessageUUID)
	if err != nil {
		writeError(c, err)
		return
	}
	if handled {
		c.JSON(http.StatusOK, PrecheckResponse{Status: "routed", Reason: "conversation already assigned"})
		return
	}

	out, err := h.analysis.ProcessMessage(ctx, req.MessageUUID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, precheckResponse(out))
}

func precheckResponse(out *services.Outcome) PrecheckResponse {
	switch out.Status {
	case services.OutcomeNoText:
		return PrecheckResponse{Status: "failed", Reason: "message has no text content", Outcome: out}
	case services.OutcomeInjection:
		return PrecheckResponse{Status: "failed", Reason: "injection detected", Outcome: out}
	case services.OutcomeUnsupported:
		return PrecheckResponse{Status: "failed", Reason: "unsupported language", Outcome: out}
	}
	return PrecheckResponse{
		Status:              "success",
		SuggestedDepartment: out.Record.SuggestedDepartmentName,
		Confidence:          out.Record.RoutingConfidence,
		Outcome:             out,
	}
}

func (h *RoutingHandler) Process(c *gin.Context) {
	id, ok := requireParam(c, "RoutingHandler.Process", "message_id")
	if !ok {
		return
	}

	out, err := h.analysis.ProcessMessage(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type EnqueueRequest struct {
	SessionUUID string `json:"session_uuid"`
}

func (h *RoutingHandler) Enqueue(c *gin.Context) {
	const op = "RoutingHandler.Enqueue"

	id, ok := requireParam(c, op, "message_id")
	if !ok {
		return
	}
	var req EnqueueRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
			return
		}
	}

	entryID, err := h.queue.Enqueue(c.Request.Context(), id, req.SessionUUID)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to enqueue message", err))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message_uuid": id, "entry_id": entryID})
}

func (h *RoutingHandler) Results(c *gin.Context) {
	id, ok := requireParam(c, "RoutingHandler.Results", "message_id")
	if !ok {
		return
	}

	res, err := h.analysis.Results(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
