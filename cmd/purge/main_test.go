package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fieldlogger/internal/config"
	"fieldlogger/internal/db"
	"fieldlogger/internal/inspection"
	gormrepository "fieldlogger/internal/repository/gorm"
)

func seed(t *testing.T, dsn string, ids ...string) {
	t.Helper()
	conn, err := db.Open(config.DBConfig{Driver: db.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	defer db.Close(conn)
	require.NoError(t, db.AutoMigrate(conn))
	store := gormrepository.New(conn.Gorm)
	for _, id := range ids {
		_, err := store.Save(context.Background(), inspection.NewPending(id, "Site A", "J. Doe", "No issues found", time.Now()))
		require.NoError(t, err)
	}
}

func TestPurgeCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "fl.db")
	seed(t, dsn, "a1", "a2")
	t.Setenv("FL_DB_DRIVER", "sqlite")
	t.Setenv("FL_DB_DSN", dsn)

	var out bytes.Buffer
	cmd := newPurgeCommand(&out)
	cmd.SetArgs([]string{"--env-only", "--yes"})
	require.NoError(t, cmd.Execute())
	require.True(t, strings.Contains(out.String(), "deleted 2"), out.String())

	out.Reset()
	cmd = newPurgeCommand(&out)
	cmd.SetArgs([]string{"--env-only", "-y"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "deleted 0")
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	t.Setenv("FL_DB_DRIVER", "sqlite")
	t.Setenv("FL_DB_DSN", filepath.Join(t.TempDir(), "fl.db"))

	var out bytes.Buffer
	cmd := newPurgeCommand(&out)
	cmd.SetArgs([]string{"--env-only"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	require.True(t, errors.Is(err, errNotConfirmed), "err=%v", err)
}

func TestPurgeRejectsMemoryDriver(t *testing.T) {
	t.Setenv("FL_DB_DRIVER", "memory")
	_, err := purge(context.Background(), purgeOptions{EnvOnly: true})
	require.Error(t, err)
}
