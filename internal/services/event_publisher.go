package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const EventMessageRouted = "message_routed"

// DepartmentEvent is what the department dashboard feed receives.
type DepartmentEvent struct {
	Type         string    `json:"type"`
	DepartmentID int64     `json:"department_id"`
	SessionUUID  string    `json:"session_uuid"`
	MessageUUID  string    `json:"message_uuid"`
	Assigned     bool      `json:"assigned"`
	Text         string    `json:"text"`
	At           time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev DepartmentEvent) error
}

// DepartmentChannel is the pub/sub channel of one department's dashboard.
func DepartmentChannel(departmentID int64) string {
	return fmt.Sprintf("department:%d:events", departmentID)
}

type redisPublisher struct {
	rdb *redis.Client
}

func NewRedisEventPublisher(rdb *redis.Client) EventPublisher {
	return &redisPublisher{rdb: rdb}
}

func (p *redisPublisher) Publish(ctx context.Context, ev DepartmentEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, DepartmentChannel(ev.DepartmentID), b).Err()
}
