package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContactInquiry is a message submitted through the contact form.
type ContactInquiry struct {
	ID          uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name        string            `json:"name" db:"name" gorm:"type:text;not null"`
	Email       string            `json:"email" db:"email" gorm:"type:text;not null;index:idx_contact_inquiry_email"`
	Phone       string            `json:"phone,omitempty" db:"phone" gorm:"type:text"`
	Subject     string            `json:"subject,omitempty" db:"subject" gorm:"type:text"`
	Message     string            `json:"message" db:"message" gorm:"type:text;not null"`
	ProjectSlug *string           `json:"projectSlug,omitempty" db:"project_slug" gorm:"type:text;index:idx_contact_inquiry_project"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" db:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
