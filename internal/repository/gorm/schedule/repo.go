package schedulegorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/db"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"gorm.io/gorm"
)

// Repository is a GORM-backed implementation of schedule.Repository.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository constructs a call schedule repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db:  d.Conn().(*gorm.DB),
		now: time.Now,
	}
}

// Save inserts a new call schedule.
func (r *Repository) Save(ctx context.Context, c *schedule.CallSchedule) error {
	dbModel := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("save call schedule: %w", err)
	}
	c.ID = dbModel.ID
	return nil
}

// GetByID loads a single call schedule.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*schedule.CallSchedule, error) {
	var m CallScheduleModel

	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schedule.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get call schedule %s: %w", id, err)
	}

	return toDomain(&m), nil
}

// List returns call schedules ordered by preferred date, then time.
func (r *Repository) List(ctx context.Context, f schedule.ListFilter) ([]*schedule.CallSchedule, error) {
	var models []CallScheduleModel

	query := r.db.WithContext(ctx).Model(&CallScheduleModel{})

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if f.FromDate != nil {
		query = query.Where("preferred_date >= ?", f.FromDate.Format(schedule.DateLayout))
	}
	if f.ToDate != nil {
		query = query.Where("preferred_date <= ?", f.ToDate.Format(schedule.DateLayout))
	}

	query = query.Order("preferred_date ASC, preferred_time ASC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list call schedules: %w", err)
	}

	return toDomainMany(models), nil
}

// UpdateStatus persists a new status and refreshes updated_at.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, s schedule.Status) (*schedule.CallSchedule, error) {
	updates := map[string]interface{}{
		"status":     string(s),
		"updated_at": r.now().UTC(),
	}

	res := r.db.WithContext(ctx).
		Model(&CallScheduleModel{}).
		Where("id = ?", id).
		Updates(updates)

	if res.Error != nil {
		return nil, fmt.Errorf("update status of call schedule %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, schedule.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// compile-time interface check
var _ schedule.Repository = (*Repository)(nil)
