package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/types"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Profile, error)
	Save(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]any) error
	// AdvanceStage raises current_stage to the given value. Rows already at
	// or past the target are left untouched, so the stage never moves
	// backwards through this path.
	AdvanceStage(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stage int) (bool, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *profileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	return r.conn(tx).WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Profile, error) {
	var profile types.Profile
	err := r.conn(tx).WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Save(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	return r.conn(tx).WithContext(ctx).Save(profile).Error
}

func (r *profileRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]any) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Profile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

func (r *profileRepo) AdvanceStage(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stage int) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Model(&types.Profile{}).
		Where("user_id = ? AND current_stage < ?", userID, stage).
		Update("current_stage", stage)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
