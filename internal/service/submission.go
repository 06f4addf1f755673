package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository"
)

// Notifier is told once after every successful save.
type Notifier interface {
	Notify(ctx context.Context) error
}

// Submission is the input of SubmissionService.Execute. Replay marks a record
// captured earlier by an offline client and now forwarded by sync.
type Submission struct {
	ID         string
	Location   string
	Technician string
	Findings   string
	// Status is accepted for replays but always ends up synced.
	Status    inspection.Status
	CreatedAt *time.Time
	Replay    bool
}

type SubmissionService struct {
	Repo     repository.InspectionRepository
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// Execute builds the record, saves it and notifies subscribers. Storage
// errors are returned unchanged and suppress the notification; notifier
// errors are logged only.
func (s *SubmissionService) Execute(ctx context.Context, sub Submission) (inspection.Inspection, error) {
	rec := s.build(sub)
	saved, err := s.Repo.Save(ctx, rec)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("inspection save failed",
				zap.String("id", sub.ID),
				zap.Bool("replay", sub.Replay),
				zap.Error(err),
			)
		}
		return inspection.Inspection{}, err
	}
	s.notify(ctx, saved.ID())
	return saved, nil
}

func (s *SubmissionService) build(sub Submission) inspection.Inspection {
	now := s.now()
	createdAt := now
	if sub.CreatedAt != nil && !sub.CreatedAt.IsZero() {
		createdAt = *sub.CreatedAt
	}
	if sub.Replay {
		// TODO: confirm with product whether a replayed pending record should stay pending.
		return inspection.NewSynced(sub.ID, sub.Location, sub.Technician, sub.Findings, createdAt, now)
	}
	return inspection.NewPending(sub.ID, sub.Location, sub.Technician, sub.Findings, createdAt)
}

func (s *SubmissionService) notify(ctx context.Context, id string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx); err != nil && s.Logger != nil {
		s.Logger.Warn("inspection notify failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *SubmissionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type SyncItemResult struct {
	ID         string                `json:"id"`
	Inspection *inspection.Inspection `json:"inspection,omitempty"`
	Error      string                `json:"error,omitempty"`
}

type SyncResult struct {
	Synced int              `json:"synced"`
	Failed int              `json:"failed"`
	Items  []SyncItemResult `json:"items"`
}

// SyncBatch replays a queue of offline submissions one by one. A failed
// item does not stop the rest.
func (s *SubmissionService) SyncBatch(ctx context.Context, subs []Submission) SyncResult {
	res := SyncResult{Items: make([]SyncItemResult, 0, len(subs))}
	for _, sub := range subs {
		sub.Replay = true
		rec, err := s.Execute(ctx, sub)
		if err != nil {
			res.Failed++
			res.Items = append(res.Items, SyncItemResult{ID: sub.ID, Error: err.Error()})
			continue
		}
		res.Synced++
		res.Items = append(res.Items, SyncItemResult{ID: sub.ID, Inspection: &rec})
	}
	if s.Logger != nil {
		s.Logger.Info("inspection sync batch",
			zap.Int("synced", res.Synced),
			zap.Int("failed", res.Failed),
		)
	}
	return res
}
