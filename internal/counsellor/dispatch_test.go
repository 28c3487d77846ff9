package counsellor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/db"
	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))
	return gdb
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *gorm.DB, uuid.UUID) {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()
	userID := uuid.New()
	require.NoError(t, repos.NewProfileRepo(gdb, log).Create(context.Background(), nil, &types.Profile{
		ID:           uuid.New(),
		UserID:       userID,
		CurrentStage: types.StageDiscovery,
	}))
	d := NewDispatcher(
		gdb,
		log,
		repos.NewUniversityRepo(gdb, log),
		repos.NewShortlistRepo(gdb, log),
		repos.NewTaskRepo(gdb, log),
		repos.NewProfileRepo(gdb, log),
	)
	return d, gdb, userID
}

func TestDispatchShortlistIsIdempotent(t *testing.T) {
	d, gdb, userID := newTestDispatcher(t)
	ctx := context.Background()

	action := Action{Type: ActionAddShortlist, Data: map[string]any{
		"uni_name": "Aurora Institute", "country": "Canada", "category": "Target",
	}}

	first := d.Execute(ctx, userID, []Action{action})
	require.Len(t, first, 1)
	assert.Equal(t, ActionStatusExecuted, first[0].Status)

	// Same action again with a new category: still one row, category moves.
	action.Data["category"] = "Safe"
	second := d.Execute(ctx, userID, []Action{action})
	require.Len(t, second, 1)
	assert.Equal(t, ActionStatusExecuted, second[0].Status)

	var count int64
	require.NoError(t, gdb.Model(&types.ShortlistEntry{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var entry types.ShortlistEntry
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&entry).Error)
	assert.Equal(t, types.CategorySafe, entry.Category)

	// The unknown university was materialized once with stable mock stats.
	var unis int64
	require.NoError(t, gdb.Model(&types.University{}).Count(&unis).Error)
	assert.Equal(t, int64(1), unis)
}

func TestDispatchAddTaskSkipsOpenDuplicate(t *testing.T) {
	d, gdb, userID := newTestDispatcher(t)
	ctx := context.Background()

	action := Action{Type: ActionAddTask, Data: map[string]any{"task": "Book IELTS exam"}}

	results := d.Execute(ctx, userID, []Action{action, action})
	require.Len(t, results, 2)
	assert.Equal(t, ActionStatusExecuted, results[0].Status)
	assert.Equal(t, ActionStatusSkipped, results[1].Status)

	var count int64
	require.NoError(t, gdb.Model(&types.Task{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var task types.Task
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&task).Error)
	assert.Equal(t, types.TaskPending, task.Status)
	assert.Equal(t, "AI generated", task.Description)

	// A completed task with the same title does not block a fresh one.
	require.NoError(t, gdb.Model(&types.Task{}).Where("id = ?", task.ID).Update("status", types.TaskCompleted).Error)
	again := d.Execute(ctx, userID, []Action{action})
	assert.Equal(t, ActionStatusExecuted, again[0].Status)
}

func TestDispatchAcceptsLegacyActionAliases(t *testing.T) {
	d, gdb, userID := newTestDispatcher(t)
	ctx := context.Background()

	// Older prompts produced lowercase types with flat camelCase fields.
	raw := `[{"type":"shortlist","universityName":"Aurora Institute","category":"Target"},
		{"type":"add_task","task":"Book IELTS exam"}]`
	var actions []Action
	require.NoError(t, json.Unmarshal([]byte(raw), &actions))

	results := d.Execute(ctx, userID, actions)
	require.Len(t, results, 2)
	assert.Equal(t, ActionStatusExecuted, results[0].Status)
	assert.Equal(t, ActionStatusExecuted, results[1].Status)

	var entry types.ShortlistEntry
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&entry).Error)
	assert.Equal(t, "Aurora Institute", entry.UniversityName)
	assert.Equal(t, types.CategoryTarget, entry.Category)

	var task types.Task
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&task).Error)
	assert.Equal(t, "Book IELTS exam", task.Title)
}

func TestDispatchTaskDescriptionKeepsMarker(t *testing.T) {
	d, gdb, userID := newTestDispatcher(t)

	results := d.Execute(context.Background(), userID, []Action{{Type: ActionAddTask, Data: map[string]any{
		"title": "Draft SOP", "description": "Outline and first draft",
	}}})
	require.Len(t, results, 1)
	assert.Equal(t, ActionStatusExecuted, results[0].Status)

	var task types.Task
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&task).Error)
	assert.Equal(t, "Outline and first draft (AI generated)", task.Description)
}

func TestDispatchStageOnlyMovesForward(t *testing.T) {
	d, gdb, userID := newTestDispatcher(t)
	ctx := context.Background()

	back := d.Execute(ctx, userID, []Action{{Type: ActionUpdateStage, Data: map[string]any{"stage": float64(2)}}})
	assert.Equal(t, ActionStatusSkipped, back[0].Status)

	forward := d.Execute(ctx, userID, []Action{{Type: ActionUpdateStage, Data: map[string]any{"stage": float64(5)}}})
	assert.Equal(t, ActionStatusExecuted, forward[0].Status)

	var profile types.Profile
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&profile).Error)
	assert.Equal(t, types.StageFinalizing, profile.CurrentStage)

	// Out-of-range values clamp instead of failing.
	over := d.Execute(ctx, userID, []Action{{Type: ActionUpdateStage, Data: map[string]any{"stage": float64(99)}}})
	assert.Equal(t, ActionStatusExecuted, over[0].Status)
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&profile).Error)
	assert.Equal(t, types.StageApplication, profile.CurrentStage)
}

func TestDispatchIsolatesFailuresAndKeepsOrder(t *testing.T) {
	d, _, userID := newTestDispatcher(t)
	ctx := context.Background()

	actions := []Action{
		{Type: "LAUNCH_ROCKET", Data: map[string]any{}},
		{Type: ActionAddShortlist, Data: map[string]any{}},
		{Type: ActionAddTask, Data: map[string]any{"task": "Write SOP draft"}},
		{Type: ActionNavigate, Data: map[string]any{"page": "/discovery"}},
	}
	results := d.Execute(ctx, userID, actions)
	require.Len(t, results, 4)

	assert.Equal(t, ActionStatusFailed, results[0].Status)
	assert.Equal(t, "LAUNCH_ROCKET", results[0].Type)
	assert.Equal(t, ActionStatusFailed, results[1].Status, "missing university name must fail that action only")
	assert.Equal(t, ActionStatusExecuted, results[2].Status)
	assert.Equal(t, ActionStatusExecuted, results[3].Status)
	assert.Equal(t, "/discovery", results[3].Detail)
}
