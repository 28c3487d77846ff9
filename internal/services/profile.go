package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

const onboardingFinalStep = 5

// OnboardingStepInput carries one wizard step. Only the fields belonging
// to the submitted step are applied; the rest are ignored.
type OnboardingStepInput struct {
	Step int `json:"step"`

	// Step 1: basics
	FullName       string `json:"full_name"`
	EducationLevel string `json:"education_level"`
	SchoolBoard    string `json:"school_board"`

	// Step 2: academics
	GPA            string `json:"gpa"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduation_year"`

	// Step 3: goals
	TargetDegree  string `json:"target_degree"`
	TargetMajor   string `json:"target_major"`
	TargetCountry string `json:"target_country"`
	Budget        string `json:"budget"`
	FundingType   string `json:"funding_type"`

	// Step 4: readiness
	TestScores     map[string]any `json:"test_scores"`
	WorkExperience string         `json:"work_experience"`

	// Step 5: insights
	Extracurriculars  string `json:"extracurriculars"`
	CareerAspirations string `json:"career_aspirations"`
	LanguagesKnown    string `json:"languages_known"`
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, fields map[string]any) (*types.Profile, error)
	SaveOnboardingStep(ctx context.Context, userID uuid.UUID, input *OnboardingStepInput) (*types.Profile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
	}
}

func (ps *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	profile, err := ps.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	return profile, nil
}

// Update applies a whitelisted set of profile fields. Stage and
// onboarding bookkeeping columns are never writable through here.
func (ps *profileService) Update(ctx context.Context, userID uuid.UUID, fields map[string]any) (*types.Profile, error) {
	allowed := map[string]bool{
		"full_name": true, "education_level": true, "gpa": true,
		"major": true, "graduation_year": true, "school_board": true,
		"target_degree": true, "target_major": true, "target_country": true,
		"budget": true, "funding_type": true, "test_scores": true,
		"work_experience": true, "extracurriculars": true,
		"career_aspirations": true, "languages_known": true,
	}
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	if err := ps.profileRepo.UpdateFields(ctx, nil, userID, filtered); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return ps.Get(ctx, userID)
}

// SaveOnboardingStep persists one wizard step and advances the step
// pointer. Completing the final step marks the profile complete and moves
// the journey from onboarding to discovery. Steps are idempotent; an
// earlier step can be resubmitted without rewinding progress.
func (ps *profileService) SaveOnboardingStep(ctx context.Context, userID uuid.UUID, input *OnboardingStepInput) (*types.Profile, error) {
	if input.Step < 1 || input.Step > onboardingFinalStep {
		return nil, fmt.Errorf("invalid onboarding step %d", input.Step)
	}

	profile, err := ps.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	applyOnboardingStep(profile, input)

	if input.Step >= profile.OnboardingStep {
		profile.OnboardingStep = input.Step + 1
	}
	completed := input.Step == onboardingFinalStep
	if completed {
		profile.OnboardingStep = onboardingFinalStep
		profile.IsProfileComplete = true
	}

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sErr := ps.profileRepo.Save(ctx, tx, profile); sErr != nil {
			return fmt.Errorf("failed to save profile: %w", sErr)
		}
		if completed {
			if _, aErr := ps.profileRepo.AdvanceStage(ctx, tx, userID, types.StageDiscovery); aErr != nil {
				return fmt.Errorf("failed to advance stage: %w", aErr)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if completed {
		ps.log.Info("Onboarding completed", "user_id", userID)
	}
	return ps.Get(ctx, userID)
}

func applyOnboardingStep(profile *types.Profile, input *OnboardingStepInput) {
	switch input.Step {
	case 1:
		profile.FullName = input.FullName
		profile.EducationLevel = input.EducationLevel
		profile.SchoolBoard = input.SchoolBoard
	case 2:
		profile.GPA = input.GPA
		profile.Major = input.Major
		profile.GraduationYear = input.GraduationYear
	case 3:
		profile.TargetDegree = input.TargetDegree
		profile.TargetMajor = input.TargetMajor
		profile.TargetCountry = input.TargetCountry
		profile.Budget = input.Budget
		profile.FundingType = input.FundingType
	case 4:
		if input.TestScores != nil {
			profile.TestScores = datatypes.JSONMap(input.TestScores)
		}
		profile.WorkExperience = input.WorkExperience
	case 5:
		profile.Extracurriculars = input.Extracurriculars
		profile.CareerAspirations = input.CareerAspirations
		profile.LanguagesKnown = input.LanguagesKnown
	}
}
