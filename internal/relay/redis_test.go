package relay

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingBroadcaster struct {
	calls atomic.Int32
}

func (b *countingBroadcaster) Broadcast(ctx context.Context) error {
	b.calls.Add(1)
	return nil
}

func unreachable() *redis.Options {
	return &redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}
}

func TestNotifyFallsBackToLocalBroadcast(t *testing.T) {
	local := &countingBroadcaster{}
	r := NewRedisRelay(unreachable(), "", local, nil)
	defer r.Close()

	if r.Channel != DefaultChannel {
		t.Fatalf("channel=%q want default", r.Channel)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Notify(ctx); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := local.calls.Load(); got != 1 {
		t.Fatalf("local broadcasts=%d want 1", got)
	}
}

func TestRunFailsWithoutRedis(t *testing.T) {
	r := NewRedisRelay(unreachable(), "test", &countingBroadcaster{}, nil)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Run(ctx); err == nil {
		t.Fatalf("Run returned nil without a redis server")
	}
}

func TestNotifyReachesEveryReplicaOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	const channel = "fieldlogger:test"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	locals := []*countingBroadcaster{{}, {}}
	relays := make([]*RedisRelay, len(locals))
	done := make(chan error, len(locals))
	for i, local := range locals {
		relays[i] = NewRedisRelay(&redis.Options{Addr: mr.Addr()}, channel, local, nil)
		defer relays[i].Close()
		go func(r *RedisRelay) { done <- r.Run(ctx) }(relays[i])
	}

	deadline := time.Now().Add(2 * time.Second)
	for mr.PubSubNumSub(channel)[channel] < len(relays) {
		if time.Now().After(deadline) {
			t.Fatalf("relays never subscribed, got %d", mr.PubSubNumSub(channel)[channel])
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := relays[0].Notify(ctx); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	deadline = time.Now().Add(2 * time.Second)
	for locals[0].calls.Load() < 1 || locals[1].calls.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("broadcasts=%d,%d want 1,1", locals[0].calls.Load(), locals[1].calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	for i, local := range locals {
		if got := local.calls.Load(); got != 1 {
			t.Fatalf("replica %d broadcasts=%d want 1", i, got)
		}
	}

	cancel()
	for range relays {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Run did not return after cancel")
		}
	}
}
