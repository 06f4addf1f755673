package memory

import (
	"context"
	"sort"
	"sync"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository"
)

// Store keeps inspections in process memory with the same upsert rules as
// the SQL store.
type Store struct {
	mu    sync.RWMutex
	items map[string]inspection.Inspection
}

func NewStore() *Store {
	return &Store{items: map[string]inspection.Inspection{}}
}

var (
	_ repository.InspectionRepository = (*Store)(nil)
	_ repository.Purger               = (*Store)(nil)
)

func (s *Store) Save(ctx context.Context, item inspection.Inspection) (inspection.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return inspection.Inspection{}, repository.Unavailable("save", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := item
	if prev, ok := s.items[item.ID()]; ok {
		f := item.Fields()
		f.CreatedAt = prev.CreatedAt()
		merged, err := inspection.Restore(f)
		if err != nil {
			return inspection.Inspection{}, repository.Unavailable("save", err)
		}
		stored = merged
	}
	s.items[item.ID()] = stored
	return item, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (inspection.Inspection, bool, error) {
	if err := ctx.Err(); err != nil {
		return inspection.Inspection{}, false, repository.Unavailable("find_by_id", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok, nil
}

func (s *Store) FindAll(ctx context.Context) ([]inspection.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.Unavailable("find_all", err)
	}
	s.mu.RLock()
	out := make([]inspection.Inspection, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	s.mu.RUnlock()
	sortByCreated(out)
	return out, nil
}

func (s *Store) FindByStatus(ctx context.Context, status inspection.Status) ([]inspection.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.Unavailable("find_by_status", err)
	}
	s.mu.RLock()
	out := make([]inspection.Inspection, 0)
	for _, item := range s.items {
		if item.Status() == status {
			out = append(out, item)
		}
	}
	s.mu.RUnlock()
	sortByCreated(out)
	return out, nil
}

func (s *Store) PurgeAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, repository.Unavailable("purge_all", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.items))
	s.items = map[string]inspection.Inspection{}
	return n, nil
}

func sortByCreated(items []inspection.Inspection) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].CreatedAt(), items[j].CreatedAt()
		if a.Equal(b) {
			return items[i].ID() < items[j].ID()
		}
		return a.Before(b)
	})
}
