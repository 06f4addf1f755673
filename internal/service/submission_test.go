package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository"
	"fieldlogger/internal/repository/memory"
)

type countingNotifier struct {
	calls int
	err   error
}

func (n *countingNotifier) Notify(ctx context.Context) error {
	n.calls++
	return n.err
}

type failingRepo struct {
	repository.InspectionRepository
}

func (failingRepo) Save(ctx context.Context, item inspection.Inspection) (inspection.Inspection, error) {
	return inspection.Inspection{}, repository.Unavailable("save", errors.New("connection refused"))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestExecuteFreshSubmission(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	n := &countingNotifier{}
	svc := &SubmissionService{Repo: store, Notifier: n, Now: fixedClock(now)}

	rec, err := svc.Execute(context.Background(), Submission{
		ID: "a1", Location: "Site A", Technician: "J. Doe", Findings: "No issues found",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rec.Status() != inspection.StatusPending || rec.SyncedAt().IsSet() {
		t.Fatalf("rec=%+v", rec.Fields())
	}
	if !rec.CreatedAt().Equal(now) {
		t.Fatalf("created_at=%s want %s", rec.CreatedAt(), now)
	}
	got, ok, err := store.FindByID(context.Background(), "a1")
	if err != nil || !ok {
		t.Fatalf("FindByID ok=%v err=%v", ok, err)
	}
	if got.Location() != "Site A" {
		t.Fatalf("stored=%+v", got.Fields())
	}
	if n.calls != 1 {
		t.Fatalf("notify calls=%d want 1", n.calls)
	}
}

func TestExecuteReplayForcesSynced(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	n := &countingNotifier{}
	svc := &SubmissionService{Repo: store, Notifier: n, Now: fixedClock(now)}

	if _, err := svc.Execute(context.Background(), Submission{
		ID: "a1", Location: "Site A", Technician: "J. Doe", Findings: "No issues found",
	}); err != nil {
		t.Fatalf("fresh: %v", err)
	}
	rec, err := svc.Execute(context.Background(), Submission{
		ID: "a1", Location: "Site A", Technician: "J. Doe", Findings: "No issues found",
		Status: inspection.StatusPending, CreatedAt: &created, Replay: true,
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if rec.Status() != inspection.StatusSynced {
		t.Fatalf("status=%s want synced", rec.Status())
	}
	at, ok := rec.SyncedAt().Get()
	if !ok || !at.Equal(now) {
		t.Fatalf("synced_at=%v,%v want %s", at, ok, now)
	}
	if !rec.CreatedAt().Equal(created) {
		t.Fatalf("replay createdAt=%s want %s", rec.CreatedAt(), created)
	}
	if n.calls != 2 {
		t.Fatalf("notify calls=%d want 2", n.calls)
	}
}

func TestExecuteStorageFailureSkipsNotify(t *testing.T) {
	n := &countingNotifier{}
	svc := &SubmissionService{Repo: failingRepo{}, Notifier: n}

	_, err := svc.Execute(context.Background(), Submission{ID: "a1"})
	if !errors.Is(err, repository.ErrStorageUnavailable) {
		t.Fatalf("err=%v want ErrStorageUnavailable", err)
	}
	if n.calls != 0 {
		t.Fatalf("notify called %d times on failure", n.calls)
	}
}

func TestExecuteNotifyFailureIsSwallowed(t *testing.T) {
	n := &countingNotifier{err: errors.New("broadcast snapshot failed")}
	svc := &SubmissionService{Repo: memory.NewStore(), Notifier: n}

	if _, err := svc.Execute(context.Background(), Submission{ID: "a1", Location: "Site A"}); err != nil {
		t.Fatalf("notify failure leaked into Execute: %v", err)
	}
	if n.calls != 1 {
		t.Fatalf("notify calls=%d want 1", n.calls)
	}
}

func TestSyncBatch(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	n := &countingNotifier{}
	svc := &SubmissionService{Repo: store, Notifier: n}

	res := svc.SyncBatch(context.Background(), []Submission{
		{ID: "a1", Location: "Site A", CreatedAt: &created},
		{ID: "a2", Location: "Site B", CreatedAt: &created},
	})
	if res.Synced != 2 || res.Failed != 0 || len(res.Items) != 2 {
		t.Fatalf("res=%+v", res)
	}
	synced, _ := store.FindByStatus(context.Background(), inspection.StatusSynced)
	if len(synced) != 2 {
		t.Fatalf("synced=%d want 2", len(synced))
	}
	if n.calls != 2 {
		t.Fatalf("notify calls=%d want one per save", n.calls)
	}

	failed := (&SubmissionService{Repo: failingRepo{}}).SyncBatch(context.Background(), []Submission{{ID: "a3"}})
	if failed.Failed != 1 || failed.Items[0].Error == "" {
		t.Fatalf("failed=%+v", failed)
	}
}
