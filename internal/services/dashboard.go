package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

const summaryTaskLimit = 3

// StrengthBreakdown itemizes the profile strength score so the dashboard
// can show what is missing.
type StrengthBreakdown struct {
	Academics  int `json:"academics"`
	Goals      int `json:"goals"`
	Readiness  int `json:"readiness"`
	Background int `json:"background"`
}

type ProfileStrength struct {
	Score     int               `json:"score"`
	Label     string            `json:"label"`
	Breakdown StrengthBreakdown `json:"breakdown"`
}

// DashboardSummary is the single payload behind the dashboard landing
// view.
type DashboardSummary struct {
	Strength       ProfileStrength `json:"strength"`
	Stage          int             `json:"stage"`
	Phase          string          `json:"phase"`
	UpcomingTasks  []*types.Task   `json:"upcoming_tasks"`
	OpenTaskCount  int             `json:"open_task_count"`
	ShortlistCount int64           `json:"shortlist_count"`
	LockedCount    int64           `json:"locked_count"`
}

type DashboardService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error)
	Strength(ctx context.Context, userID uuid.UUID) (*ProfileStrength, error)
	GenerateTasks(ctx context.Context, userID uuid.UUID) ([]*types.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*types.Task, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) error
}

type dashboardService struct {
	db              *gorm.DB
	log             *logger.Logger
	profileRepo     repos.ProfileRepo
	taskRepo        repos.TaskRepo
	shortlistRepo   repos.ShortlistRepo
	applicationRepo repos.ApplicationRepo
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	taskRepo repos.TaskRepo,
	shortlistRepo repos.ShortlistRepo,
	applicationRepo repos.ApplicationRepo,
) DashboardService {
	return &dashboardService{
		db:              db,
		log:             log.With("service", "DashboardService"),
		profileRepo:     profileRepo,
		taskRepo:        taskRepo,
		shortlistRepo:   shortlistRepo,
		applicationRepo: applicationRepo,
	}
}

func (ds *dashboardService) Summary(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
	profile, err := ds.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	// Stage tasks are (re)generated on every summary load. Generation is
	// idempotent by title, so repeated loads add nothing.
	if _, gErr := ds.generateForProfile(ctx, userID, profile); gErr != nil {
		ds.log.Warn("Task generation failed during summary", "error", gErr)
	}

	open, oErr := ds.taskRepo.ListOpenByUser(ctx, nil, userID, 0)
	if oErr != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", oErr)
	}
	upcoming := open
	if len(upcoming) > summaryTaskLimit {
		upcoming = upcoming[:summaryTaskLimit]
	}

	shortlisted, slErr := ds.shortlistRepo.CountByUser(ctx, nil, userID)
	if slErr != nil {
		return nil, fmt.Errorf("failed to count shortlist: %w", slErr)
	}
	locked, lErr := ds.applicationRepo.CountByUser(ctx, nil, userID)
	if lErr != nil {
		return nil, fmt.Errorf("failed to count applications: %w", lErr)
	}

	return &DashboardSummary{
		Strength:       computeStrength(profile),
		Stage:          profile.CurrentStage,
		Phase:          stagePhases[profile.CurrentStage],
		UpcomingTasks:  upcoming,
		OpenTaskCount:  len(open),
		ShortlistCount: shortlisted,
		LockedCount:    locked,
	}, nil
}

func (ds *dashboardService) Strength(ctx context.Context, userID uuid.UUID) (*ProfileStrength, error) {
	profile, err := ds.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	strength := computeStrength(profile)
	return &strength, nil
}

// computeStrength scores the profile out of 100. Each pillar caps
// independently so one very complete section cannot hide an empty one.
func computeStrength(profile *types.Profile) ProfileStrength {
	var b StrengthBreakdown

	// Academics, up to 30.
	if profile.GPA != "" {
		b.Academics += 15
	}
	if profile.Major != "" {
		b.Academics += 10
	}
	if profile.EducationLevel != "" {
		b.Academics += 5
	}

	// Goals, up to 30.
	if profile.TargetCountry != "" {
		b.Goals += 10
	}
	if profile.TargetMajor != "" {
		b.Goals += 10
	}
	if profile.Budget != "" {
		b.Goals += 10
	}

	// Readiness, up to 25.
	if len(profile.TestScores) > 0 {
		b.Readiness += 15
	}
	if profile.WorkExperience != "" {
		b.Readiness += 10
	}

	// Background, up to 15.
	if profile.Extracurriculars != "" {
		b.Background += 5
	}
	if profile.CareerAspirations != "" {
		b.Background += 5
	}
	if profile.LanguagesKnown != "" {
		b.Background += 5
	}

	score := b.Academics + b.Goals + b.Readiness + b.Background
	return ProfileStrength{
		Score:     score,
		Label:     strengthLabel(score),
		Breakdown: b,
	}
}

func strengthLabel(score int) string {
	switch {
	case score >= 70:
		return "Strong"
	case score >= 40:
		return "Average"
	default:
		return "Weak"
	}
}

type taskTemplate struct {
	Title       string
	Description string
	Category    string
	Priority    string
}

// stageTaskTemplates maps a journey stage to the tasks it unlocks.
// Earlier stages' tasks are not regenerated once the user moves past them.
var stageTaskTemplates = map[int][]taskTemplate{
	types.StageOnboarding: {
		{"Complete your profile", "Finish the onboarding wizard so recommendations reflect your background.", "profile", "High"},
	},
	types.StageDiscovery: {
		{"Explore university matches", "Browse the discovery page and note schools that fit your goals.", "discovery", "High"},
		{"Research scholarship options", "Look into funding for your target country.", "funding", "Medium"},
	},
	types.StageShortlist: {
		{"Shortlist at least 5 universities", "A balanced list mixes Dream, Target and Safe picks.", "shortlist", "High"},
	},
	types.StageFinalizing: {
		{"Review your shortlist balance", "Check the Dream/Target/Safe spread before locking.", "shortlist", "Medium"},
	},
	types.StageLocking: {
		{"Lock your final choices", "Locked universities move to the application tracker.", "locking", "High"},
	},
	types.StageApplication: {
		{"Start your application essays", "Draft your statement of purpose early.", "application", "High"},
		{"Request recommendation letters", "Give your referees at least four weeks of lead time.", "application", "Medium"},
	},
}

// GenerateTasks creates the rule-based tasks for the user's current stage.
// A title that ever existed for the user is never created again, so
// completing a generated task does not resurrect it.
func (ds *dashboardService) GenerateTasks(ctx context.Context, userID uuid.UUID) ([]*types.Task, error) {
	profile, err := ds.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	return ds.generateForProfile(ctx, userID, profile)
}

func (ds *dashboardService) generateForProfile(ctx context.Context, userID uuid.UUID, profile *types.Profile) ([]*types.Task, error) {
	templates := stageTaskTemplates[profile.CurrentStage]
	created := make([]*types.Task, 0, len(templates))
	for _, tpl := range templates {
		exists, eErr := ds.taskRepo.TitleExists(ctx, nil, userID, tpl.Title)
		if eErr != nil {
			return created, fmt.Errorf("failed to check task %q: %w", tpl.Title, eErr)
		}
		if exists {
			continue
		}
		now := time.Now().UTC()
		task := &types.Task{
			ID:          uuid.New(),
			UserID:      userID,
			Title:       tpl.Title,
			Description: tpl.Description,
			Status:      types.TaskPending,
			Category:    tpl.Category,
			Priority:    tpl.Priority,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if cErr := ds.taskRepo.Create(ctx, nil, task); cErr != nil {
			return created, fmt.Errorf("failed to create task %q: %w", tpl.Title, cErr)
		}
		created = append(created, task)
	}
	return created, nil
}

func (ds *dashboardService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*types.Task, error) {
	tasks, err := ds.taskRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (ds *dashboardService) UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) error {
	updated, err := ds.taskRepo.UpdateStatus(ctx, nil, userID, taskID, status)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if !updated {
		return fmt.Errorf("task not found")
	}
	return nil
}
