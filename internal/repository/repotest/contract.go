// Package repotest holds the behavioural checks every InspectionRepository
// implementation must pass.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) repository.InspectionRepository

func Run(t *testing.T, newRepo Factory) {
	t.Run("SaveIsIdempotent", func(t *testing.T) { testSaveIdempotent(t, newRepo(t)) })
	t.Run("SaveMergesMutableFields", func(t *testing.T) { testSaveMerge(t, newRepo(t)) })
	t.Run("SaveReturnsGivenRecord", func(t *testing.T) { testSaveReturnsGiven(t, newRepo(t)) })
	t.Run("SaveClearsSyncedAt", func(t *testing.T) { testSaveClearsSyncedAt(t, newRepo(t)) })
	t.Run("FindByIDAbsent", func(t *testing.T) { testFindByIDAbsent(t, newRepo(t)) })
	t.Run("FindByStatus", func(t *testing.T) { testFindByStatus(t, newRepo(t)) })
	t.Run("ConcurrentSaveSameID", func(t *testing.T) { testConcurrentSave(t, newRepo(t)) })
}

func baseTime() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func testSaveIdempotent(t *testing.T, repo repository.InspectionRepository) {
	ctx := context.Background()
	id := uuid.NewString()
	rec := inspection.NewPending(id, "Site A", "J. Doe", "No issues found", baseTime())

	_, err := repo.Save(ctx, rec)
	require.NoError(t, err)
	first, err := repo.FindAll(ctx)
	require.NoError(t, err)

	_, err = repo.Save(ctx, rec)
	require.NoError(t, err)
	second, err := repo.FindAll(ctx)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, views(first), views(second))
	assert.True(t, second[0].CreatedAt().Equal(baseTime()))
}

func testSaveMerge(t *testing.T, repo repository.InspectionRepository) {
	ctx := context.Background()
	id := uuid.NewString()
	original := inspection.NewPending(id, "Site A", "J. Doe", "No issues found", baseTime())
	_, err := repo.Save(ctx, original)
	require.NoError(t, err)

	syncedAt := baseTime().Add(48 * time.Hour)
	update := inspection.NewSynced(id, "Site B", "J. Doe", "Cracked pipe under sink", baseTime().Add(24*time.Hour), syncedAt)
	_, err = repo.Save(ctx, update)
	require.NoError(t, err)

	got, ok, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Site B", got.Location())
	assert.Equal(t, "Cracked pipe under sink", got.Findings())
	assert.Equal(t, inspection.StatusSynced, got.Status())
	assert.True(t, got.CreatedAt().Equal(baseTime()), "created_at=%s", got.CreatedAt())
	at, set := got.SyncedAt().Get()
	require.True(t, set)
	assert.True(t, at.Equal(syncedAt), "synced_at=%s", at)
}

func testSaveReturnsGiven(t *testing.T, repo repository.InspectionRepository) {
	ctx := context.Background()
	id := uuid.NewString()
	fresh := baseTime().Add(72 * time.Hour)
	_, err := repo.Save(ctx, inspection.NewPending(id, "Site A", "J. Doe", "No issues found", fresh))
	require.NoError(t, err)

	replay := inspection.NewSynced(id, "Site A", "J. Doe", "No issues found", baseTime(), fresh.Add(time.Hour))
	got, err := repo.Save(ctx, replay)
	require.NoError(t, err)
	assert.Equal(t, replay.View(), got.View())

	stored, ok, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.CreatedAt().Equal(fresh), "stored created_at=%s", stored.CreatedAt())
	assert.Equal(t, inspection.StatusSynced, stored.Status())
}

func testSaveClearsSyncedAt(t *testing.T, repo repository.InspectionRepository) {
	ctx := context.Background()
	id := uuid.NewString()
	_, err := repo.Save(ctx, inspection.NewSynced(id, "Site A", "J. Doe", "No issues found", baseTime(), baseTime().Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Save(ctx, inspection.NewPending(id, "Site A", "J. Doe", "No issues found", baseTime()))
	require.NoError(t, err)

	got, ok, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, inspection.StatusPending, got.Status())
	assert.False(t, got.SyncedAt().IsSet())
}

func testFindByIDAbsent(t *testing.T, repo repository.InspectionRepository) {
	_, ok, err := repo.FindByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)
}

func testFindByStatus(t *testing.T, repo repository.InspectionRepository) {
	ctx := context.Background()
	pending := map[string]bool{}
	for i := 0; i < 5; i++ {
		id := uuid.NewString()
		created := baseTime().Add(time.Duration(i) * time.Minute)
		var rec inspection.Inspection
		if i%2 == 0 {
			rec = inspection.NewPending(id, "Site", "Tech", "Findings text", created)
			pending[id] = true
		} else {
			rec = inspection.NewSynced(id, "Site", "Tech", "Findings text", created, created.Add(time.Hour))
		}
		_, err := repo.Save(ctx, rec)
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	got, err := repo.FindByStatus(ctx, inspection.StatusPending)
	require.NoError(t, err)
	require.Len(t, got, len(pending))
	for _, rec := range got {
		assert.True(t, pending[rec.ID()], "unexpected pending record %s", rec.ID())
		assert.Equal(t, inspection.StatusPending, rec.Status())
	}

	synced, err := repo.FindByStatus(ctx, inspection.StatusSynced)
	require.NoError(t, err)
	assert.Len(t, synced, 5-len(pending))
}

func testConcurrentSave(t *testing.T, repo repository.InspectionRepository) {
	ctx := context.Background()
	id := uuid.NewString()
	sets := [][3]string{
		{"North yard", "A. Smith", "Rust on the north gate"},
		{"South yard", "B. Jones", "Loose cable near pump"},
	}

	const rounds = 10
	var wg sync.WaitGroup
	errs := make(chan error, rounds*len(sets))
	for r := 0; r < rounds; r++ {
		for _, fs := range sets {
			wg.Add(1)
			go func(fs [3]string) {
				defer wg.Done()
				_, err := repo.Save(ctx, inspection.NewPending(id, fs[0], fs[1], fs[2], baseTime()))
				errs <- err
			}(fs)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := [3]string{all[0].Location(), all[0].Technician(), all[0].Findings()}
	assert.Contains(t, sets, got, fmt.Sprintf("interleaved row %v", got))
}

func views(items []inspection.Inspection) []inspection.View {
	return inspection.Views(items)
}
