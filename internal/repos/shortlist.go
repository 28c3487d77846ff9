package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/types"
)

type ShortlistRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ShortlistEntry, error)
	Get(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) (*types.ShortlistEntry, error)
	// Upsert inserts the entry or, when the (user, university) pair already
	// exists, refreshes its category. Never produces a duplicate row.
	Upsert(ctx context.Context, tx *gorm.DB, entry *types.ShortlistEntry) error
	Create(ctx context.Context, tx *gorm.DB, entry *types.ShortlistEntry) error
	Delete(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type shortlistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShortlistRepo(db *gorm.DB, baseLog *logger.Logger) ShortlistRepo {
	return &shortlistRepo{db: db, log: baseLog.With("repo", "ShortlistRepo")}
}

func (r *shortlistRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *shortlistRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ShortlistEntry, error) {
	var entries []*types.ShortlistEntry
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *shortlistRepo) Get(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) (*types.ShortlistEntry, error) {
	var entry types.ShortlistEntry
	err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND university_id = ?", userID, universityID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *shortlistRepo) Upsert(ctx context.Context, tx *gorm.DB, entry *types.ShortlistEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "university_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category"}),
		}).
		Create(entry).Error
}

func (r *shortlistRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ShortlistEntry) error {
	return r.conn(tx).WithContext(ctx).Create(entry).Error
}

func (r *shortlistRepo) Delete(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&types.ShortlistEntry{}).Error
}

func (r *shortlistRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.ShortlistEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
