package services

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

func TestStatusReflectsJourney(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	svc := NewStatusService(gdb, log, repos.NewProfileRepo(gdb, log), repos.NewShortlistRepo(gdb, log), repos.NewApplicationRepo(gdb, log))
	ctx := context.Background()

	userID := registerTestUser(t, gdb, types.StageShortlist)

	status, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, types.StageShortlist, status.Stage)
	assert.Equal(t, PhaseShortlisting, status.Phase)
	assert.NotEmpty(t, status.StageLabel)
	assert.InDelta(t, 0.5, status.Progress, 0.001)
	assert.Equal(t, int64(0), status.ShortlistCount)

	_, err = svc.Get(ctx, uuid.New())
	assert.Error(t, err)
}

func TestStatusPhaseMapCoversEveryStage(t *testing.T) {
	for stage := types.StageSignup; stage <= types.StageApplication; stage++ {
		assert.NotEmpty(t, stagePhases[stage], "stage %d has no phase", stage)
		assert.NotEmpty(t, stageLabels[stage], "stage %d has no label", stage)
	}
}
