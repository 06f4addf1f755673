package repository

import (
	"context"
	"errors"
	"fmt"

	"fieldlogger/internal/inspection"
)

// ErrStorageUnavailable matches every failure reported by a store.
var ErrStorageUnavailable = errors.New("storage unavailable")

// InspectionRepository is the persistence port used by the service layer.
type InspectionRepository interface {
	// Save upserts by id. On conflict it overwrites location, technician,
	// findings, status and synced_at and keeps the stored created_at. The
	// returned record is the one passed in.
	Save(ctx context.Context, item inspection.Inspection) (inspection.Inspection, error)
	// FindByID reports found=false with a nil error when nothing matches.
	FindByID(ctx context.Context, id string) (inspection.Inspection, bool, error)
	FindAll(ctx context.Context) ([]inspection.Inspection, error)
	FindByStatus(ctx context.Context, status inspection.Status) ([]inspection.Inspection, error)
}

// Purger removes every stored inspection. Maintenance only.
type Purger interface {
	PurgeAll(ctx context.Context) (int64, error)
}

// StorageError carries the failed operation and, when the backend reports
// one, its error code (SQLSTATE for Postgres).
type StorageError struct {
	Op   string
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code %s): %v", ErrStorageUnavailable, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

func Unavailable(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func UnavailableWithCode(op, code string, err error) error {
	return &StorageError{Op: op, Code: code, Err: err}
}
