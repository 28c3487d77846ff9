package types

import (
	"time"

	"github.com/google/uuid"
)

// Admission-likelihood categories.
const (
	CategoryDream  = "Dream"
	CategoryTarget = "Target"
	CategorySafe   = "Safe"
)

type ShortlistEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_shortlist_user_uni,unique,priority:1" json:"user_id"`
	UniversityID uuid.UUID `gorm:"type:uuid;not null;index:idx_shortlist_user_uni,unique,priority:2" json:"university_id"`

	// Denormalized for display so listing never needs a join.
	UniversityName string `gorm:"column:university_name" json:"university_name"`
	Country        string `gorm:"column:country" json:"country"`

	Category string `gorm:"column:category;not null;default:'Target'" json:"category"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ShortlistEntry) TableName() string { return "shortlist_entries" }
