package gormrepository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlogger/internal/config"
	"fieldlogger/internal/db"
	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository"
	"fieldlogger/internal/repository/repotest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(config.DBConfig{Driver: db.DriverSQLite, DSN: filepath.Join(t.TempDir(), "inspections.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.AutoMigrate(conn))
	return New(conn.Gorm)
}

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.InspectionRepository {
		return newTestStore(t)
	})
}

func TestSaveReturnsGivenCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := created.Add(72 * time.Hour)

	_, err := s.Save(ctx, inspection.NewPending("a1", "Site A", "J. Doe", "No issues found", fresh))
	require.NoError(t, err)
	got, err := s.Save(ctx, inspection.NewSynced("a1", "Site A", "J. Doe", "No issues found", created, fresh))
	require.NoError(t, err)
	assert.True(t, got.CreatedAt().Equal(created), "created_at=%s", got.CreatedAt())
	assert.Equal(t, inspection.StatusSynced, got.Status())

	stored, ok, err := s.FindByID(ctx, "a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.CreatedAt().Equal(fresh), "stored created_at=%s", stored.CreatedAt())
}

func TestPurgeAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{"a", "b"} {
		_, err := s.Save(ctx, inspection.NewPending(id, "Site", "Tech", "Findings text", now))
		require.NoError(t, err)
	}
	n, err := s.PurgeAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedDBIsStorageUnavailable(t *testing.T) {
	conn, err := db.Open(config.DBConfig{Driver: db.DriverSQLite, DSN: filepath.Join(t.TempDir(), "closed.db")})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))
	s := New(conn.Gorm)
	require.NoError(t, db.Close(conn))

	_, err = s.FindAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrStorageUnavailable), "err=%v", err)

	var se *repository.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "find_all", se.Op)
}

func TestNilStore(t *testing.T) {
	var s *Store
	_, _, err := s.FindByID(context.Background(), "x")
	assert.True(t, errors.Is(err, repository.ErrStorageUnavailable))
}
