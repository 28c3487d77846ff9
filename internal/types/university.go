package types

import (
	"time"

	"github.com/google/uuid"
)

// University is read-only reference data. Rows come from the seed script,
// from the external search proxy, or are created on demand when the AI
// shortlists a name the catalogue has never seen.
type University struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// SourceID carries the external provider's identifier when the row was
	// imported rather than seeded.
	SourceID       string  `gorm:"column:source_id;uniqueIndex;default:null" json:"source_id,omitempty"`
	Name           string  `gorm:"column:name;not null;index" json:"name"`
	Country        string  `gorm:"column:country" json:"country"`
	Ranking        int     `gorm:"column:ranking" json:"ranking"`
	TuitionFee     string  `gorm:"column:tuition_fee" json:"tuition_fee"`
	AcceptanceRate float64 `gorm:"column:acceptance_rate" json:"acceptance_rate"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (University) TableName() string { return "universities" }
