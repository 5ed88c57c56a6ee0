package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Natenyt/AI-Powered-Government-System/internal/metrics"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/notify"
	pgrepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/postgres"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

const nonTextPlaceholder = "[Non-text message]"

// RouteResult summarizes one dispatch.
type RouteResult struct {
	DepartmentID int64  `json:"department_id"`
	SessionUUID  string `json:"session_uuid"`
	// Assigned is true only for the call that set the session's department.
	Assigned   bool `json:"assigned"`
	Recipients int  `json:"recipients"`
	Delivered  int  `json:"delivered"`
}

type RouterService interface {
	Route(ctx context.Context, departmentID int64, messageUUID string) (*RouteResult, error)
	// Precheck routes directly when the session already has a department.
	// An empty sessionUUID is taken from the message.
	Precheck(ctx context.Context, sessionUUID, messageUUID string) (bool, error)
}

type routerService struct {
	messages    pgrepo.MessageRepository
	sessions    pgrepo.SessionRepository
	operators   pgrepo.OperatorRepository
	departments DepartmentService
	notifier    notify.Notifier
	events      EventPublisher
	fanout      int
	logger      *logrus.Logger
}

type RouterDeps struct {
	Messages    pgrepo.MessageRepository
	Sessions    pgrepo.SessionRepository
	Operators   pgrepo.OperatorRepository
	Departments DepartmentService
	Notifier    notify.Notifier // optional
	Events      EventPublisher  // optional
	Fanout      int
	Logger      *logrus.Logger
}

func NewRouterService(d RouterDeps) RouterService {
	if d.Fanout <= 0 {
		d.Fanout = 8
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &routerService{
		messages:    d.Messages,
		sessions:    d.Sessions,
		operators:   d.Operators,
		departments: d.Departments,
		notifier:    d.Notifier,
		events:      d.Events,
		fanout:      d.Fanout,
		logger:      d.Logger,
	}
}

func (s *routerService) Route(ctx context.Context, departmentID int64, messageUUID string) (*RouteResult, error) {
	const op = "RouterService.Route"
	defer metrics.ObserveStage("dispatch", time.Now())

	if departmentID <= 0 || messageUUID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "department_id and message_uuid are required", nil)
	}

	msg, err := s.loadMessage(ctx, op, messageUUID)
	if err != nil {
		return nil, err
	}
	session, err := s.loadSession(ctx, op, msg.SessionUUID)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.Get(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"message_id":    messageUUID,
		"session_id":    session.SessionUUID,
		"department_id": departmentID,
	})

	assigned, err := s.sessions.AssignDepartmentIfUnset(ctx, session.SessionUUID, departmentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to assign department", err)
	}
	if assigned {
		metrics.Assignments.WithLabelValues("assigned").Inc()
		log.Info("session assigned to department")
	} else {
		metrics.Assignments.WithLabelValues("kept").Inc()
		if session.AssignedDepartmentID != nil && *session.AssignedDepartmentID != departmentID {
			log.WithField("assigned_department_id", *session.AssignedDepartmentID).
				Warn("session already assigned to another department, assignment kept")
		}
	}

	out := &RouteResult{DepartmentID: departmentID, SessionUUID: session.SessionUUID, Assigned: assigned}
	text := NotificationText(dept, msg)

	chatIDs, err := s.operators.TelegramChatIDs(ctx, departmentID)
	if err != nil {
		log.WithError(err).Error("operator lookup failed, skipping notifications")
		chatIDs = nil
	}
	out.Recipients = len(chatIDs)
	out.Delivered = s.deliverAll(ctx, log, chatIDs, text)

	s.publish(ctx, log, DepartmentEvent{
		Type:         EventMessageRouted,
		DepartmentID: departmentID,
		SessionUUID:  session.SessionUUID,
		MessageUUID:  messageUUID,
		Assigned:     assigned,
		Text:         messageBody(msg),
		At:           time.Now().UTC(),
	})

	log.WithFields(logrus.Fields{
		"recipients": out.Recipients,
		"delivered":  out.Delivered,
	}).Info("message routed")
	return out, nil
}

func (s *routerService) Precheck(ctx context.Context, sessionUUID, messageUUID string) (bool, error) {
	const op = "RouterService.Precheck"

	if messageUUID == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "message_uuid is required", nil)
	}
	if sessionUUID == "" {
		msg, err := s.loadMessage(ctx, op, messageUUID)
		if err != nil {
			return false, err
		}
		sessionUUID = msg.SessionUUID
	}

	session, err := s.loadSession(ctx, op, sessionUUID)
	if err != nil {
		return false, err
	}
	if session.AssignedDepartmentID == nil {
		return false, nil
	}

	if _, err := s.Route(ctx, *session.AssignedDepartmentID, messageUUID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *routerService) loadMessage(ctx context.Context, op, messageUUID string) (*models.Message, error) {
	msg, err := s.messages.GetByUUID(ctx, messageUUID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "message not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get message", err)
	}
	return msg, nil
}

func (s *routerService) loadSession(ctx context.Context, op, sessionUUID string) (*models.Session, error) {
	session, err := s.sessions.GetBySessionUUID(ctx, sessionUUID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return session, nil
}

// deliverAll never fails as a whole; it returns the number of successful deliveries.
func (s *routerService) deliverAll(ctx context.Context, log *logrus.Entry, chatIDs []int64, text string) int {
	if len(chatIDs) == 0 {
		return 0
	}
	if s.notifier == nil {
		log.Warn("notifier not configured, skipping operator notifications")
		return 0
	}

	var delivered atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.fanout)
	for _, id := range chatIDs {
		g.Go(func() error {
			if err := s.notifier.Deliver(ctx, id, text); err != nil {
				metrics.Deliveries.WithLabelValues("failed").Inc()
				log.WithError(err).WithField("chat_id", id).Warn("operator notification failed")
				return nil
			}
			metrics.Deliveries.WithLabelValues("ok").Inc()
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(delivered.Load())
}

func (s *routerService) publish(ctx context.Context, log *logrus.Entry, ev DepartmentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.WithError(err).Warn("dashboard event publish failed")
	}
}

// NotificationText is the operator-facing notification for a routed message.
func NotificationText(dept *models.Department, msg *models.Message) string {
	return "New Message for " + dept.DisplayName() + ":\n\n" + messageBody(msg)
}

func messageBody(msg *models.Message) string {
	body := strings.Join(msg.TextFragments(), "\n")
	if body == "" {
		return nonTextPlaceholder
	}
	return body
}
