package workers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/services"
)

const (
	DefaultStream = "messages:stream"
	DefaultGroup  = "routing-workers"
)

// MessageQueue appends message ids to the routing stream.
type MessageQueue struct {
	Redis  *redis.Client
	Stream string
}

func NewMessageQueue(rdb *redis.Client) *MessageQueue {
	return &MessageQueue{Redis: rdb, Stream: DefaultStream}
}

// Enqueue returns the stream entry id.
func (q *MessageQueue) Enqueue(ctx context.Context, messageUUID, sessionUUID string) (string, error) {
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: q.Stream,
		Values: map[string]any{
			"message_uuid": messageUUID,
			"session_uuid": sessionUUID,
			"enqueued_at":  strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	}).Result()
}

// MessageWorkerPool consumes the routing stream: precheck first, then the full pipeline.
type MessageWorkerPool struct {
	Redis      *redis.Client
	Router     services.RouterService
	Analysis   services.AnalysisService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	wg sync.WaitGroup
}

func (p *MessageWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Router == nil || p.Analysis == nil {
		return errors.New("MessageWorkerPool missing dependency: Redis/Router/Analysis must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 4
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	if err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err(); err != nil && !isBusyGroup(err) {
		p.Logger.WithError(err).WithFields(logrus.Fields{"stream": p.Stream, "group": p.Group}).Error("consumer group create failed")
		return err
	}

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runConsumer(ctx, consumer)
		}()
	}
	return nil
}

// Wait blocks until every consumer has returned after ctx cancellation,
// including the entry each one was processing.
func (p *MessageWorkerPool) Wait() {
	p.wg.Wait()
}

func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (p *MessageWorkerPool) runConsumer(ctx context.Context, consumer string) {
	log := p.Logger.WithField("consumer", consumer)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Error("stream read failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				// in-flight entries finish even after shutdown starts
				p.Handle(context.WithoutCancel(ctx), msg)
				if err := p.Redis.XAck(context.WithoutCancel(ctx), p.Stream, p.Group, msg.ID).Err(); err != nil {
					log.WithError(err).WithField("redis_id", msg.ID).Error("stream ack failed")
				}
			}
		}
	}
}

// Handle processes one stream entry. Failures are logged; the entry is acked either way.
func (p *MessageWorkerPool) Handle(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	messageUUID := getStr("message_uuid")
	sessionUUID := getStr("session_uuid")
	if messageUUID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"message_id": messageUUID,
		"session_id": sessionUUID,
	})

	handled, err := p.Router.Precheck(ctx, sessionUUID, messageUUID)
	if err != nil {
		log.WithError(err).Error("precheck failed")
		return
	}
	if handled {
		log.Info("routed to assigned department")
		return
	}

	out, err := p.Analysis.ProcessMessage(ctx, messageUUID)
	if err != nil {
		log.WithError(err).Error("pipeline failed")
		return
	}
	log.WithField("status", out.Status).Info("message processed")
}
