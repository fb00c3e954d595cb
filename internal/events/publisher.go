package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/models"
)

// InterviewCompletedChannel carries one JSON InterviewCompletedEvent per finished interview.
const InterviewCompletedChannel = "interview_completed"

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, channel: InterviewCompletedChannel, logger: logger}
}

func (p *RedisPublisher) PublishInterviewCompleted(ctx context.Context, evt models.InterviewCompletedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal interview completed event: %w", err)
	}

	receivers, err := p.rdb.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}

	p.logger.Debug("Published interview completed event",
		zap.String("interview_id", evt.InterviewID),
		zap.Int64("receivers", receivers))
	return nil
}

// NopPublisher is used when no Redis is configured.
type NopPublisher struct{}

func (NopPublisher) PublishInterviewCompleted(context.Context, models.InterviewCompletedEvent) error {
	return nil
}
