package contactgorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/db"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"gorm.io/gorm"
)

// Repository is a GORM-backed implementation of contact.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Save inserts a new message record into the database.
func (r *Repository) Save(ctx context.Context, msg *contact.Message) error {
	dbModel := fromDomain(msg)
	if err := r.db.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	msg.ID = dbModel.ID
	return nil
}

// GetByID loads a single message.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	var m ContactMessageModel

	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact message %s: %w", id, err)
	}

	return toDomain(&m), nil
}

// List returns messages newest first.
func (r *Repository) List(ctx context.Context, f contact.ListFilter) ([]*contact.Message, error) {
	var models []ContactMessageModel

	query := r.db.WithContext(ctx).Model(&ContactMessageModel{})
	if f.IsRead != nil {
		query = query.Where("is_read = ?", *f.IsRead)
	}
	query = query.Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	return toDomainMany(models), nil
}

// SetRead updates the read flag of a message.
func (r *Repository) SetRead(ctx context.Context, id uuid.UUID, read bool) (*contact.Message, error) {
	res := r.db.WithContext(ctx).
		Model(&ContactMessageModel{}).
		Where("id = ?", id).
		Update("is_read", read)

	if res.Error != nil {
		return nil, fmt.Errorf("set read on contact message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, contact.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// compile-time interface check
var _ contact.Repository = (*Repository)(nil)
