package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/models"
)

type CompletionHandler func(models.InterviewCompletedEvent)

type Subscriber struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewSubscriber(rdb *redis.Client, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{rdb: rdb, logger: logger}
}

// SubscribeToCompletions calls handle for every event until ctx is done.
// ready, if non-nil, is closed once the subscription is active.
func (s *Subscriber) SubscribeToCompletions(ctx context.Context, ready chan<- struct{}, handle CompletionHandler) error {
	subscriber := s.rdb.Subscribe(ctx, InterviewCompletedChannel)
	defer subscriber.Close()

	if _, err := subscriber.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}
	ch := subscriber.Channel()

	s.logger.Info("Subscribed to interview completed events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var evt models.InterviewCompletedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				s.logger.Warn("Dropping malformed interview completed event", zap.Error(err))
				continue
			}
			handle(evt)
		}
	}
}
