package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

// Journey phases as the frontend routes on them. Several stages collapse
// into one phase.
const (
	PhaseOnboarding   = "ONBOARDING"
	PhaseDiscovery    = "DISCOVERY"
	PhaseShortlisting = "SHORTLISTING"
	PhaseLocking      = "LOCKING"
	PhaseApplication  = "APPLICATION"
)

var stagePhases = map[int]string{
	types.StageSignup:      PhaseOnboarding,
	types.StageOnboarding:  PhaseOnboarding,
	types.StageDiscovery:   PhaseDiscovery,
	types.StageShortlist:   PhaseShortlisting,
	types.StageFinalizing:  PhaseShortlisting,
	types.StageLocking:     PhaseLocking,
	types.StageApplication: PhaseApplication,
}

var stageLabels = map[int]string{
	types.StageSignup:      "Account created",
	types.StageOnboarding:  "Building your profile",
	types.StageDiscovery:   "Discovering universities",
	types.StageShortlist:   "Shortlisting",
	types.StageFinalizing:  "Finalizing your list",
	types.StageLocking:     "Locking choices",
	types.StageApplication: "Applying",
}

// UserStatus is the journey summary behind the status endpoint.
type UserStatus struct {
	Stage             int     `json:"stage"`
	StageLabel        string  `json:"stage_label"`
	Phase             string  `json:"phase"`
	OnboardingStep    int     `json:"onboarding_step"`
	IsProfileComplete bool    `json:"is_profile_complete"`
	Progress          float64 `json:"progress"`
	ShortlistCount    int64   `json:"shortlist_count"`
	LockedCount       int64   `json:"locked_count"`
}

type StatusService interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserStatus, error)
}

type statusService struct {
	db              *gorm.DB
	log             *logger.Logger
	profileRepo     repos.ProfileRepo
	shortlistRepo   repos.ShortlistRepo
	applicationRepo repos.ApplicationRepo
}

func NewStatusService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	shortlistRepo repos.ShortlistRepo,
	applicationRepo repos.ApplicationRepo,
) StatusService {
	return &statusService{
		db:              db,
		log:             log.With("service", "StatusService"),
		profileRepo:     profileRepo,
		shortlistRepo:   shortlistRepo,
		applicationRepo: applicationRepo,
	}
}

func (ss *statusService) Get(ctx context.Context, userID uuid.UUID) (*UserStatus, error) {
	profile, err := ss.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	shortlisted, slErr := ss.shortlistRepo.CountByUser(ctx, nil, userID)
	if slErr != nil {
		return nil, fmt.Errorf("failed to count shortlist: %w", slErr)
	}
	locked, lErr := ss.applicationRepo.CountByUser(ctx, nil, userID)
	if lErr != nil {
		return nil, fmt.Errorf("failed to count applications: %w", lErr)
	}

	stage := profile.CurrentStage
	if stage < types.StageSignup {
		stage = types.StageSignup
	}
	if stage > types.StageApplication {
		stage = types.StageApplication
	}

	return &UserStatus{
		Stage:             stage,
		StageLabel:        stageLabels[stage],
		Phase:             stagePhases[stage],
		OnboardingStep:    profile.OnboardingStep,
		IsProfileComplete: profile.IsProfileComplete,
		Progress:          float64(stage-1) / float64(types.StageApplication-1),
		ShortlistCount:    shortlisted,
		LockedCount:       locked,
	}, nil
}
