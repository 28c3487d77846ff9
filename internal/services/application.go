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

var applicationStatuses = map[string]bool{
	types.ApplicationDraft:      true,
	types.ApplicationApplied:    true,
	types.ApplicationAccepted:   true,
	types.ApplicationRejected:   true,
	types.ApplicationWaitlisted: true,
}

type ApplicationUpdate struct {
	Status   string     `json:"status"`
	Deadline *time.Time `json:"deadline"`
	Notes    *string    `json:"notes"`
}

type ApplicationService interface {
	Lock(ctx context.Context, userID uuid.UUID, universityID string) (*types.Application, error)
	Unlock(ctx context.Context, userID uuid.UUID, universityID string) error
	List(ctx context.Context, userID uuid.UUID) ([]*types.Application, error)
	Update(ctx context.Context, userID, appID uuid.UUID, update *ApplicationUpdate) error
	Delete(ctx context.Context, userID, appID uuid.UUID) error
}

type applicationService struct {
	db              *gorm.DB
	log             *logger.Logger
	applicationRepo repos.ApplicationRepo
	universityRepo  repos.UniversityRepo
	profileRepo     repos.ProfileRepo
}

func NewApplicationService(
	db *gorm.DB,
	log *logger.Logger,
	applicationRepo repos.ApplicationRepo,
	universityRepo repos.UniversityRepo,
	profileRepo repos.ProfileRepo,
) ApplicationService {
	return &applicationService{
		db:              db,
		log:             log.With("service", "ApplicationService"),
		applicationRepo: applicationRepo,
		universityRepo:  universityRepo,
		profileRepo:     profileRepo,
	}
}

// Lock commits a university into the application tracker and moves the
// journey to the application stage. Locking the same university twice
// returns the existing entry unchanged.
func (as *applicationService) Lock(ctx context.Context, userID uuid.UUID, universityID string) (*types.Application, error) {
	if universityID == "" {
		return nil, fmt.Errorf("university_id is required")
	}

	existing, err := as.applicationRepo.GetByUserAndUniversity(ctx, nil, userID, universityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	app := &types.Application{
		ID:           uuid.New(),
		UserID:       userID,
		UniversityID: universityID,
		Status:       types.ApplicationDraft,
		LockedAt:     time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if id, pErr := uuid.Parse(universityID); pErr == nil {
		uni, uErr := as.universityRepo.GetByID(ctx, nil, id)
		if uErr == nil && uni != nil {
			app.UniversityName = uni.Name
			app.Country = uni.Country
			app.Ranking = uni.Ranking
		}
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cErr := as.applicationRepo.Create(ctx, tx, app); cErr != nil {
			return fmt.Errorf("failed to lock university: %w", cErr)
		}
		if _, sErr := as.profileRepo.AdvanceStage(ctx, tx, userID, types.StageApplication); sErr != nil {
			return fmt.Errorf("failed to advance stage: %w", sErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	as.log.Info("University locked", "user_id", userID, "university_id", universityID)
	return app, nil
}

// Unlock removes a locked university. When the last one goes, the journey
// drops back to the locking stage so the frontend reopens the picker.
// This is the one place a stage moves backward.
func (as *applicationService) Unlock(ctx context.Context, userID uuid.UUID, universityID string) error {
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, dErr := as.applicationRepo.DeleteByUniversity(ctx, tx, userID, universityID)
		if dErr != nil {
			return fmt.Errorf("failed to unlock university: %w", dErr)
		}
		if !removed {
			return fmt.Errorf("application not found")
		}
		remaining, cErr := as.applicationRepo.CountByUser(ctx, tx, userID)
		if cErr != nil {
			return fmt.Errorf("failed to count applications: %w", cErr)
		}
		if remaining == 0 {
			if uErr := as.profileRepo.UpdateFields(ctx, tx, userID, map[string]any{"current_stage": types.StageLocking}); uErr != nil {
				return fmt.Errorf("failed to reset stage: %w", uErr)
			}
		}
		return nil
	})
}

func (as *applicationService) List(ctx context.Context, userID uuid.UUID) ([]*types.Application, error) {
	apps, err := as.applicationRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Update moves an application across Kanban columns or edits its
// deadline and notes.
func (as *applicationService) Update(ctx context.Context, userID, appID uuid.UUID, update *ApplicationUpdate) error {
	fields := map[string]any{}
	if update.Status != "" {
		if !applicationStatuses[update.Status] {
			return fmt.Errorf("invalid status %q", update.Status)
		}
		fields["status"] = update.Status
	}
	if update.Deadline != nil {
		fields["deadline"] = *update.Deadline
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if len(fields) == 0 {
		return fmt.Errorf("no updatable fields provided")
	}

	updated, err := as.applicationRepo.UpdateFields(ctx, nil, userID, appID, fields)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if !updated {
		return fmt.Errorf("application not found")
	}
	return nil
}

func (as *applicationService) Delete(ctx context.Context, userID, appID uuid.UUID) error {
	if err := as.applicationRepo.Delete(ctx, nil, userID, appID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}
