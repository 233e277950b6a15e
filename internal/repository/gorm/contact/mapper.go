package contactgorm

import (
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
)

// toDomain maps a GORM ContactMessageModel to a domain-level Message.
func toDomain(m *ContactMessageModel) *contact.Message {
	return &contact.Message{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Project:   m.Project,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainMany(models []ContactMessageModel) []*contact.Message {
	out := make([]*contact.Message, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain-level Message to a GORM ContactMessageModel.
func fromDomain(d *contact.Message) *ContactMessageModel {
	return &ContactMessageModel{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Project:   d.Project,
		Message:   d.Message,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt,
	}
}
