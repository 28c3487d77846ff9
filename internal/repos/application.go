package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/types"
)

type ApplicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, app *types.Application) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Application, error)
	GetByUserAndUniversity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, universityID string) (*types.Application, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, userID, appID uuid.UUID, fields map[string]any) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, appID uuid.UUID) error
	// DeleteByUniversity removes the lock matching either the application ID
	// or the university reference, mirroring the tracker's legacy delete
	// route which accepts both.
	DeleteByUniversity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, universityID string) (bool, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "ApplicationRepo")}
}

func (r *applicationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *applicationRepo) Create(ctx context.Context, tx *gorm.DB, app *types.Application) error {
	return r.conn(tx).WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Application, error) {
	var apps []*types.Application
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("locked_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepo) GetByUserAndUniversity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, universityID string) (*types.Application, error) {
	var app types.Application
	err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND university_id = ?", userID, universityID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID, appID uuid.UUID, fields map[string]any) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Model(&types.Application{}).
		Where("id = ? AND user_id = ?", appID, userID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *applicationRepo) Delete(ctx context.Context, tx *gorm.DB, userID, appID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", appID, userID).
		Delete(&types.Application{}).Error
}

func (r *applicationRepo) DeleteByUniversity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, universityID string) (bool, error) {
	q := r.conn(tx).WithContext(ctx).Where("user_id = ?", userID)
	if appID, err := uuid.Parse(universityID); err == nil {
		q = q.Where("university_id = ? OR id = ?", universityID, appID)
	} else {
		q = q.Where("university_id = ?", universityID)
	}
	res := q.Delete(&types.Application{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *applicationRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Application{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
