package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

func newTestDashboardService(t *testing.T, gdb *gorm.DB) DashboardService {
	t.Helper()
	log := logger.NewNop()
	return NewDashboardService(
		gdb,
		log,
		repos.NewProfileRepo(gdb, log),
		repos.NewTaskRepo(gdb, log),
		repos.NewShortlistRepo(gdb, log),
		repos.NewApplicationRepo(gdb, log),
	)
}

func TestComputeStrength(t *testing.T) {
	empty := computeStrength(&types.Profile{})
	assert.Equal(t, 0, empty.Score)
	assert.Equal(t, "Weak", empty.Label)

	full := computeStrength(&types.Profile{
		GPA:               "3.6",
		Major:             "CS",
		EducationLevel:    "Undergraduate",
		TargetCountry:     "USA",
		TargetMajor:       "AI",
		Budget:            "40000",
		TestScores:        map[string]any{"ielts": "7.5"},
		WorkExperience:    "1 year",
		Extracurriculars:  "Robotics",
		CareerAspirations: "ML engineer",
		LanguagesKnown:    "English, Hindi",
	})
	assert.Equal(t, 100, full.Score)
	assert.Equal(t, "Strong", full.Label)
	assert.Equal(t, 30, full.Breakdown.Academics)
	assert.Equal(t, 30, full.Breakdown.Goals)
	assert.Equal(t, 25, full.Breakdown.Readiness)
	assert.Equal(t, 15, full.Breakdown.Background)

	partial := computeStrength(&types.Profile{GPA: "3.6", TargetCountry: "USA"})
	assert.Equal(t, 25, partial.Score)
}

func TestGenerateTasksIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	svc := newTestDashboardService(t, gdb)
	ctx := context.Background()

	created, err := svc.GenerateTasks(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	again, err := svc.GenerateTasks(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, again)

	// Completing a generated task must not resurrect it.
	require.NoError(t, svc.UpdateTaskStatus(ctx, userID, created[0].ID, types.TaskCompleted))
	after, err := svc.GenerateTasks(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestSummaryCapsUpcomingTasks(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageApplication)
	svc := newTestDashboardService(t, gdb)
	ctx := context.Background()

	log := logger.NewNop()
	taskRepo := repos.NewTaskRepo(gdb, log)
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		require.NoError(t, taskRepo.Create(ctx, nil, &types.Task{
			ID: uuid.New(), UserID: userID, Title: title, Status: types.TaskPending,
		}))
	}

	summary, err := svc.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, summary.UpcomingTasks, summaryTaskLimit)
	assert.GreaterOrEqual(t, summary.OpenTaskCount, 4)
	assert.Equal(t, PhaseApplication, summary.Phase)
	assert.Greater(t, summary.Strength.Score, 0)
}

func TestUpdateTaskStatusValidation(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	svc := newTestDashboardService(t, gdb)
	ctx := context.Background()

	created, err := svc.GenerateTasks(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, created)

	assert.Error(t, svc.UpdateTaskStatus(ctx, userID, created[0].ID, "exploded"))
	assert.NoError(t, svc.UpdateTaskStatus(ctx, userID, created[0].ID, types.TaskInProgress))
	assert.Error(t, svc.UpdateTaskStatus(ctx, userID, uuid.New(), types.TaskCompleted))
}
