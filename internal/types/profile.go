package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Stage markers for the application journey. Stored on the profile as a
// plain integer so the frontend can gate features off it.
const (
	StageSignup      = 1
	StageOnboarding  = 2
	StageDiscovery   = 3
	StageShortlist   = 4
	StageFinalizing  = 5
	StageLocking     = 6
	StageApplication = 7
)

type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	FullName string `gorm:"column:full_name;default:'Student'" json:"full_name"`

	// Academic background
	EducationLevel string `gorm:"column:education_level" json:"education_level"`
	// GPA kept as string to avoid float precision drift on round-trips.
	GPA            string `gorm:"column:gpa" json:"gpa"`
	Major          string `gorm:"column:major" json:"major"`
	GraduationYear string `gorm:"column:graduation_year" json:"graduation_year"`
	SchoolBoard    string `gorm:"column:school_board" json:"school_board"`

	// Study goals
	TargetDegree  string `gorm:"column:target_degree" json:"target_degree"`
	TargetMajor   string `gorm:"column:target_major" json:"target_major"`
	TargetCountry string `gorm:"column:target_country" json:"target_country"`
	Budget        string `gorm:"column:budget" json:"budget"`
	FundingType   string `gorm:"column:funding_type" json:"funding_type"`

	// Readiness: string-keyed score map, e.g. {"ielts": "7.5", "gre": "320"}.
	TestScores     datatypes.JSONMap `gorm:"column:test_scores" json:"test_scores"`
	WorkExperience string            `gorm:"column:work_experience" json:"work_experience"`

	// Personal insights
	Extracurriculars  string `gorm:"column:extracurriculars" json:"extracurriculars"`
	CareerAspirations string `gorm:"column:career_aspirations" json:"career_aspirations"`
	LanguagesKnown    string `gorm:"column:languages_known" json:"languages_known"`

	CurrentStage      int  `gorm:"column:current_stage;not null;default:1" json:"current_stage"`
	OnboardingStep    int  `gorm:"column:onboarding_step;not null;default:1" json:"onboarding_step"`
	IsProfileComplete bool `gorm:"column:is_profile_complete;not null;default:false" json:"is_profile_complete"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
