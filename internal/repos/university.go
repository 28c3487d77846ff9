package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/types"
)

type UniversityListFilter struct {
	Country    string
	MaxTuition int
	MaxRanking int
	Limit      int
}

type UniversityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, uni *types.University) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.University, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.University, error)
	GetByNameInsensitive(ctx context.Context, tx *gorm.DB, name string) (*types.University, error)
	GetBySourceID(ctx context.Context, tx *gorm.DB, sourceID string) (*types.University, error)
	List(ctx context.Context, tx *gorm.DB, filter UniversityListFilter) ([]*types.University, error)
}

type universityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUniversityRepo(db *gorm.DB, baseLog *logger.Logger) UniversityRepo {
	return &universityRepo{db: db, log: baseLog.With("repo", "UniversityRepo")}
}

func (r *universityRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *universityRepo) Create(ctx context.Context, tx *gorm.DB, uni *types.University) error {
	return r.conn(tx).WithContext(ctx).Create(uni).Error
}

func (r *universityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.University, error) {
	var uni types.University
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&uni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uni, nil
}

func (r *universityRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.University, error) {
	var uni types.University
	err := r.conn(tx).WithContext(ctx).Where("name = ?", name).First(&uni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uni, nil
}

func (r *universityRepo) GetByNameInsensitive(ctx context.Context, tx *gorm.DB, name string) (*types.University, error) {
	var uni types.University
	err := r.conn(tx).WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&uni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uni, nil
}

func (r *universityRepo) GetBySourceID(ctx context.Context, tx *gorm.DB, sourceID string) (*types.University, error) {
	if sourceID == "" {
		return nil, nil
	}
	var uni types.University
	err := r.conn(tx).WithContext(ctx).Where("source_id = ?", sourceID).First(&uni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uni, nil
}

func (r *universityRepo) List(ctx context.Context, tx *gorm.DB, filter UniversityListFilter) ([]*types.University, error) {
	q := r.conn(tx).WithContext(ctx).Model(&types.University{})
	if filter.Country != "" {
		q = q.Where("LOWER(country) = LOWER(?)", filter.Country)
	}
	if filter.MaxRanking > 0 {
		q = q.Where("ranking > 0 AND ranking <= ?", filter.MaxRanking)
	}
	if filter.MaxTuition > 0 {
		// tuition_fee holds plain digits; empty means unknown and is excluded.
		q = q.Where("tuition_fee <> '' AND CAST(tuition_fee AS INTEGER) <= ?", filter.MaxTuition)
	}
	q = q.Order("ranking ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var unis []*types.University
	if err := q.Find(&unis).Error; err != nil {
		return nil, err
	}
	return unis, nil
}
