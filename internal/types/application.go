package types

import (
	"time"

	"github.com/google/uuid"
)

// Kanban columns of the application tracker.
const (
	ApplicationDraft      = "Draft"
	ApplicationApplied    = "Applied"
	ApplicationAccepted   = "Accepted"
	ApplicationRejected   = "Rejected"
	ApplicationWaitlisted = "Waitlisted"
)

// Application is a locked university the user committed to applying to.
type Application struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_application_user_uni,unique,priority:1" json:"user_id"`

	// UniversityID references either an internal catalogue row or an
	// external provider ID, so it stays a string.
	UniversityID   string `gorm:"column:university_id;not null;index:idx_application_user_uni,unique,priority:2" json:"university_id"`
	UniversityName string `gorm:"column:university_name" json:"university_name"`
	Country        string `gorm:"column:country" json:"country"`
	Ranking        int    `gorm:"column:ranking" json:"ranking"`

	Status   string     `gorm:"column:status;not null;default:'Draft'" json:"status"`
	Deadline *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Notes    string     `gorm:"column:notes" json:"notes"`

	LockedAt  time.Time `gorm:"column:locked_at;not null" json:"locked_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }
