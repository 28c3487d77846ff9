package counsellor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

func newTestEngine(t *testing.T, gen *fakeGenerator) (*Engine, uuid.UUID) {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()
	userID := uuid.New()
	profileRepo := repos.NewProfileRepo(gdb, log)
	require.NoError(t, profileRepo.Create(context.Background(), nil, &types.Profile{
		ID:           uuid.New(),
		UserID:       userID,
		GPA:          "3.4",
		CurrentStage: types.StageDiscovery,
	}))

	assembler := NewAssembler(log, profileRepo, repos.NewTaskRepo(gdb, log), repos.NewShortlistRepo(gdb, log), nil)
	gateway := NewGateway(log, gen)
	dispatcher := NewDispatcher(gdb, log, repos.NewUniversityRepo(gdb, log), repos.NewShortlistRepo(gdb, log), repos.NewTaskRepo(gdb, log), profileRepo)
	return NewEngine(log, assembler, gateway, dispatcher), userID
}

func TestEngineChatExecutesProposedActions(t *testing.T) {
	gen := &fakeGenerator{configured: true, output: `{
		"message": "Added it to your shortlist!",
		"actions": [
			{"type": "ADD_SHORTLIST", "data": {"uni_name": "Aurora Institute", "category": "Target", "country": "Canada"}},
			{"type": "ADD_TASK", "data": {"task": "Email the admissions office"}}
		]
	}`}
	engine, userID := newTestEngine(t, gen)

	result, err := engine.Chat(context.Background(), userID, "shortlist Aurora Institute for me")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Added it to your shortlist!", result.AIMessage)
	require.Len(t, result.ActionResults, 2)
	assert.Len(t, result.ActionsExecuted, 2)
	assert.Contains(t, result.ActionsExecuted[0], "ADD_SHORTLIST")
	assert.Len(t, result.OriginalActions, 2)
}

func TestEngineChatDegradedWithoutCredentials(t *testing.T) {
	engine, userID := newTestEngine(t, &fakeGenerator{configured: false})

	result, err := engine.Chat(context.Background(), userID, "hello")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindConfiguration, result.ErrorKind)
	assert.NotEmpty(t, result.AIMessage)
	assert.Empty(t, result.ActionResults)
	assert.NotNil(t, result.ActionsExecuted)
}

func TestEngineChatUnknownUser(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeGenerator{configured: true, output: "{}"})

	_, err := engine.Chat(context.Background(), uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestEngineChatReportsPartialFailures(t *testing.T) {
	gen := &fakeGenerator{configured: true, output: `{
		"message": "Doing two things",
		"actions": [
			{"type": "TELEPORT", "data": {}},
			{"type": "ADD_TASK", "data": {"task": "Draft SOP"}}
		]
	}`}
	engine, userID := newTestEngine(t, gen)

	result, err := engine.Chat(context.Background(), userID, "go")
	require.NoError(t, err)

	require.Len(t, result.ActionResults, 2)
	assert.Equal(t, ActionStatusFailed, result.ActionResults[0].Status)
	assert.Equal(t, ActionStatusExecuted, result.ActionResults[1].Status)
	require.Len(t, result.ActionsExecuted, 1)
	assert.Contains(t, result.ActionsExecuted[0], "ADD_TASK")
}
