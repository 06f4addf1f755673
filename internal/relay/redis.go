package relay

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fieldlogger/internal/logger"
)

const DefaultChannel = "fieldlogger:inspections"

// Broadcaster is the local fan-out a relay hands notifications to.
type Broadcaster interface {
	Broadcast(ctx context.Context) error
}

type event struct {
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// RedisRelay spreads save notifications across server replicas through a
// redis pub/sub channel. Every replica, the publisher included, broadcasts
// when the message comes back from Run.
type RedisRelay struct {
	Client  *redis.Client
	Channel string
	Local   Broadcaster
	Logger  *zap.Logger

	origin string
}

func NewRedisRelay(opt *redis.Options, channel string, local Broadcaster, log *zap.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		Client:  redis.NewClient(opt),
		Channel: channel,
		Local:   local,
		Logger:  logger.OrNop(log),
		origin:  uuid.NewString(),
	}
}

// Notify publishes one event. If redis is unreachable the local subscribers
// are still updated.
func (r *RedisRelay) Notify(ctx context.Context) error {
	payload, err := json.Marshal(event{Origin: r.origin, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := r.Client.Publish(ctx, r.Channel, payload).Err(); err != nil {
		r.log().Warn("relay publish failed, broadcasting locally",
			zap.String("channel", r.Channel),
			zap.Error(err),
		)
		return r.broadcast(ctx)
	}
	return nil
}

// Run blocks until ctx is done, turning every channel message into a local
// broadcast.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.Client.Subscribe(ctx, r.Channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	r.log().Info("relay subscribed", zap.String("channel", r.Channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("relay channel closed")
			}
			var ev event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.log().Warn("relay message malformed", zap.Error(err))
			}
			if err := r.broadcast(ctx); err != nil {
				r.log().Warn("relay broadcast failed",
					zap.String("origin", ev.Origin),
					zap.Error(err),
				)
			}
		}
	}
}

func (r *RedisRelay) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

func (r *RedisRelay) broadcast(ctx context.Context) error {
	if r.Local == nil {
		return nil
	}
	return r.Local.Broadcast(ctx)
}

func (r *RedisRelay) log() *zap.Logger {
	return logger.OrNop(r.Logger)
}
