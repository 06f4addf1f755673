package cronrunner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository/memory"
	"fieldlogger/internal/stream"
)

type fakeNotifier struct{ calls atomic.Int32 }

func (b *fakeNotifier) Notify(ctx context.Context) error {
	b.calls.Add(1)
	return nil
}

type fixedStats stream.Stats

func (s fixedStats) Stats() stream.Stats { return stream.Stats(s) }

func TestRunnerRecoversFromPanic(t *testing.T) {
	r := New(nil, context.Background())
	r.run("boom", func(context.Context) error { panic("boom") })
	r.run("fail", func(context.Context) error { return errors.New("nope") })
}

func TestRunnerSchedulesJobs(t *testing.T) {
	r := New(nil, nil)
	var runs atomic.Int32
	if _, err := r.Add("tick", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Add("bad", "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected invalid spec error")
	}
	if r.Len() != 1 {
		t.Fatalf("jobs=%d want 1", r.Len())
	}
	r.Start()
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	r.Stop()
	if runs.Load() == 0 {
		t.Fatalf("job never ran")
	}
}

func TestPurgeJob(t *testing.T) {
	store := memory.NewStore()
	for _, id := range []string{"a", "b"} {
		if _, err := store.Save(context.Background(), inspection.NewPending(id, "Site", "Tech", "Findings text", time.Now())); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	b := &fakeNotifier{}
	if err := PurgeJob(store, b, nil)(context.Background()); err != nil {
		t.Fatalf("purge: %v", err)
	}
	all, _ := store.FindAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("left %d records", len(all))
	}
	if b.calls.Load() != 1 {
		t.Fatalf("notifications=%d want 1", b.calls.Load())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := PurgeJob(store, b, nil)(ctx); err == nil {
		t.Fatalf("expected error on canceled context")
	}
	if b.calls.Load() != 1 {
		t.Fatalf("notified after failed purge")
	}
}

func TestStreamStatsJob(t *testing.T) {
	if err := StreamStatsJob(fixedStats{Open: 2, Delivered: 5}, nil)(context.Background()); err != nil {
		t.Fatalf("stats: %v", err)
	}
}
