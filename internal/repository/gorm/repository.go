package gormrepository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/models"
	"fieldlogger/internal/repository"
)

// mutableColumns are overwritten when an id already exists; created_at is
// never part of the update set.
var mutableColumns = []string{
	"location",
	"technician",
	"findings",
	"status",
	"synced_at",
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ repository.InspectionRepository = (*Store)(nil)
	_ repository.Purger               = (*Store)(nil)
)

// Save runs a single INSERT ... ON CONFLICT (id) DO UPDATE.
func (s *Store) Save(ctx context.Context, item inspection.Inspection) (inspection.Inspection, error) {
	if s == nil || s.db == nil {
		return inspection.Inspection{}, repository.Unavailable("save", errors.New("db not configured"))
	}
	row := toRow(item)
	err := s.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		},
	).Create(&row).Error
	if err != nil {
		return inspection.Inspection{}, wrap("save", err)
	}
	return item, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (inspection.Inspection, bool, error) {
	if s == nil || s.db == nil {
		return inspection.Inspection{}, false, repository.Unavailable("find_by_id", errors.New("db not configured"))
	}
	var rows []models.InspectionRow
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return inspection.Inspection{}, false, wrap("find_by_id", err)
	}
	if len(rows) == 0 {
		return inspection.Inspection{}, false, nil
	}
	item, err := fromRow(rows[0])
	if err != nil {
		return inspection.Inspection{}, false, repository.Unavailable("find_by_id", err)
	}
	return item, true, nil
}

func (s *Store) FindAll(ctx context.Context) ([]inspection.Inspection, error) {
	if s == nil || s.db == nil {
		return nil, repository.Unavailable("find_all", errors.New("db not configured"))
	}
	var rows []models.InspectionRow
	if err := s.db.WithContext(ctx).
		Model(&models.InspectionRow{}).
		Order("created_at asc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, wrap("find_all", err)
	}
	return fromRows("find_all", rows)
}

func (s *Store) FindByStatus(ctx context.Context, status inspection.Status) ([]inspection.Inspection, error) {
	if s == nil || s.db == nil {
		return nil, repository.Unavailable("find_by_status", errors.New("db not configured"))
	}
	var rows []models.InspectionRow
	if err := s.db.WithContext(ctx).
		Model(&models.InspectionRow{}).
		Where("status = ?", string(status)).
		Order("created_at asc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, wrap("find_by_status", err)
	}
	return fromRows("find_by_status", rows)
}

func (s *Store) PurgeAll(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, repository.Unavailable("purge_all", errors.New("db not configured"))
	}
	res := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.InspectionRow{})
	if res.Error != nil {
		return 0, wrap("purge_all", res.Error)
	}
	return res.RowsAffected, nil
}

func toRow(item inspection.Inspection) models.InspectionRow {
	return models.InspectionRow{
		ID:         item.ID(),
		Location:   item.Location(),
		Technician: item.Technician(),
		Findings:   item.Findings(),
		Status:     string(item.Status()),
		CreatedAt:  item.CreatedAt().UTC(),
		SyncedAt:   item.SyncedAt().Ptr(),
	}
}

func fromRow(row models.InspectionRow) (inspection.Inspection, error) {
	return inspection.Restore(inspection.Fields{
		ID:         row.ID,
		Location:   row.Location,
		Technician: row.Technician,
		Findings:   row.Findings,
		Status:     inspection.Status(row.Status),
		CreatedAt:  row.CreatedAt,
		SyncedAt:   inspection.OptionalTimeFromPtr(row.SyncedAt),
	})
}

func fromRows(op string, rows []models.InspectionRow) ([]inspection.Inspection, error) {
	out := make([]inspection.Inspection, 0, len(rows))
	for _, row := range rows {
		item, err := fromRow(row)
		if err != nil {
			return nil, repository.Unavailable(op, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func wrap(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return repository.UnavailableWithCode(op, pgErr.Code, err)
	}
	return repository.Unavailable(op, err)
}
