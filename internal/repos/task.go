package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/types"
)

type TaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, task *types.Task) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Task, error)
	ListOpenByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Task, error)
	// OpenTitleExists reports whether the user already has a pending or
	// in-progress task with this exact title. Completed tasks don't count,
	// so a task can legitimately recur after being finished.
	OpenTitleExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) (bool, error)
	TitleExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, userID, taskID uuid.UUID, status string) (bool, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *taskRepo) Create(ctx context.Context, tx *gorm.DB, task *types.Task) error {
	return r.conn(tx).WithContext(ctx).Create(task).Error
}

func (r *taskRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Task, error) {
	var tasks []*types.Task
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("status DESC").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) ListOpenByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Task, error) {
	q := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, types.TaskCompleted).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var tasks []*types.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) OpenTitleExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) (bool, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND title = ? AND status <> ?", userID, title, types.TaskCompleted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *taskRepo) TitleExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) (bool, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND title = ?", userID, title).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *taskRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, userID, taskID uuid.UUID, status string) (bool, error) {
	switch status {
	case types.TaskPending, types.TaskInProgress, types.TaskCompleted:
	default:
		return false, errors.New("invalid task status")
	}
	res := r.conn(tx).WithContext(ctx).
		Model(&types.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
