package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// Redis relays events over a Redis pub/sub channel.
type Redis struct {
	client  *redis.Client
	channel string
	sink    ports.TaskNotifier
	logger  *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedis(client *redis.Client, channel string, sink ports.TaskNotifier, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{
		client:  client,
		channel: channel,
		sink:    sink,
		logger:  logger.Named("relay.redis").With(zap.String("channel", channel)),
	}
}

func (r *Redis) Name() string { return "redis" }

// Notify publishes in the background so a slow broker never delays the
// request that caused the change.
func (r *Redis) Notify(ctx context.Context, event domain.TaskEvent) {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := r.client.Publish(pubCtx, r.channel, string(event)).Err(); err != nil {
			r.logger.Error("failed to publish event", zap.String("event", string(event)), zap.Error(err))
		}
	}()
}

// Start subscribes and forwards received events until Stop is called.
func (r *Redis) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pubsub != nil {
		return errors.New("redis relay already started")
	}

	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	r.pubsub = pubsub
	r.done = make(chan struct{})
	go r.consume(context.WithoutCancel(ctx), pubsub.Channel(), r.done)

	r.logger.Info("redis relay subscribed")
	return nil
}

func (r *Redis) consume(ctx context.Context, messages <-chan *redis.Message, done chan struct{}) {
	defer close(done)
	for msg := range messages {
		forward(ctx, r.logger, r.sink, []byte(msg.Payload))
	}
}

func (r *Redis) Stop() error {
	r.mu.Lock()
	pubsub, done := r.pubsub, r.done
	r.pubsub, r.done = nil, nil
	r.mu.Unlock()

	if pubsub == nil {
		return nil
	}

	err := pubsub.Close()
	<-done
	r.logger.Info("redis relay stopped")
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
