package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

type Task struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Status      string     `gorm:"column:status;not null;default:'pending'" json:"status"`
	Category    string     `gorm:"column:category" json:"category"`
	Priority    string     `gorm:"column:priority;default:'Medium'" json:"priority"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
