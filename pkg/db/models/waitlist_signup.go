package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// WaitlistSignup stores one newsletter/waitlist submission.
type WaitlistSignup struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string         `gorm:"type:text;not null;uniqueIndex:waitlist_signups_email_key"`
	FullName  string         `gorm:"column:full_name;type:text;not null"`
	Interests pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
