package contactgorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessageModel is the GORM persistence model for contact messages.
// It maps directly to the "contact_messages" table in Postgres.
type ContactMessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	Email     string    `gorm:"size:254;not null;index"`
	Project   string    `gorm:"size:300"`
	Message   string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName overrides the default table name used by GORM.
func (ContactMessageModel) TableName() string {
	return "contact_messages"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *ContactMessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
