package schedulegorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallScheduleModel is the GORM persistence model for call schedules.
// It maps directly to the "call_schedules" table in Postgres.
type CallScheduleModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:200;not null"`
	Email         string    `gorm:"size:254;not null;index"`
	Phone         string    `gorm:"size:20;not null"`
	PreferredDate time.Time `gorm:"type:date;not null;index:idx_call_schedules_slot,priority:1"`
	PreferredTime string    `gorm:"size:8;not null;index:idx_call_schedules_slot,priority:2"`
	Timezone      string    `gorm:"size:50;not null"`
	Topic         string    `gorm:"size:300;not null"`
	Message       string    `gorm:"type:text"`
	Status        string    `gorm:"size:20;not null;index"`
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName overrides the default table name used by GORM.
func (CallScheduleModel) TableName() string {
	return "call_schedules"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *CallScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
