package schedulegorm

import (
	"time"

	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/validation"
)

// toDomain maps a GORM CallScheduleModel to a domain-level CallSchedule.
// The time column is stored as HH:MM:SS text so it sorts lexically.
func toDomain(m *CallScheduleModel) *schedule.CallSchedule {
	tod, _ := validation.ParseTimeOfDay(m.PreferredTime)
	d := m.PreferredDate

	return &schedule.CallSchedule{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		PreferredDate: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		PreferredTime: tod,
		Timezone:      m.Timezone,
		Topic:         m.Topic,
		Message:       m.Message,
		Status:        schedule.Status(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toDomainMany(models []CallScheduleModel) []*schedule.CallSchedule {
	out := make([]*schedule.CallSchedule, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain-level CallSchedule to a GORM CallScheduleModel.
func fromDomain(d *schedule.CallSchedule) *CallScheduleModel {
	return &CallScheduleModel{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		PreferredDate: d.PreferredDate,
		PreferredTime: d.PreferredTime.String(),
		Timezone:      d.Timezone,
		Topic:         d.Topic,
		Message:       d.Message,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
