package counsellor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

type fakeProvider struct {
	candidates []Candidate
	err        error
	gotLimit   int
}

func (f *fakeProvider) FetchCandidates(ctx context.Context, country string, limit int) ([]Candidate, error) {
	f.gotLimit = limit
	return f.candidates, f.err
}

func newTestAssembler(t *testing.T, provider UniversityProvider) (*Assembler, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()
	a := NewAssembler(
		log,
		repos.NewProfileRepo(gdb, log),
		repos.NewTaskRepo(gdb, log),
		repos.NewShortlistRepo(gdb, log),
		provider,
	)
	return a, gdb
}

func seedProfile(t *testing.T, gdb *gorm.DB, userID uuid.UUID, country string) {
	t.Helper()
	require.NoError(t, repos.NewProfileRepo(gdb, logger.NewNop()).Create(context.Background(), nil, &types.Profile{
		ID:            uuid.New(),
		UserID:        userID,
		FullName:      "Asha",
		GPA:           "3.4",
		TargetCountry: country,
		CurrentStage:  types.StageDiscovery,
	}))
}

func TestAssembleMissingProfile(t *testing.T) {
	a, _ := newTestAssembler(t, &fakeProvider{})
	_, err := a.Assemble(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestAssembleBoundsUniversitySample(t *testing.T) {
	many := make([]Candidate, 0, 40)
	for i := 0; i < 40; i++ {
		many = append(many, Candidate{Name: fmt.Sprintf("University %02d", i), Country: "Canada"})
	}
	provider := &fakeProvider{candidates: many}
	a, gdb := newTestAssembler(t, provider)
	userID := uuid.New()
	seedProfile(t, gdb, userID, "Canada")

	out, err := a.Assemble(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, maxUniversityCandidates, provider.gotLimit)
	assert.LessOrEqual(t, len(out.UniversitySample), maxUniversitySample)
	assert.Equal(t, "Asha", out.Profile.Name)
	assert.Equal(t, types.StageDiscovery, out.Profile.Stage)
}

func TestAssembleSurvivesProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("search provider down")}
	a, gdb := newTestAssembler(t, provider)
	userID := uuid.New()
	seedProfile(t, gdb, userID, "Canada")

	out, err := a.Assemble(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, out.UniversitySample)
}

func TestAssembleSkipsSampleWithoutTargetCountry(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{{Name: "Somewhere U"}}}
	a, gdb := newTestAssembler(t, provider)
	userID := uuid.New()
	seedProfile(t, gdb, userID, "")

	out, err := a.Assemble(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, out.UniversitySample)
	assert.Zero(t, provider.gotLimit)
}

func TestAssembleIncludesOpenTasksAndShortlist(t *testing.T) {
	a, gdb := newTestAssembler(t, &fakeProvider{})
	userID := uuid.New()
	seedProfile(t, gdb, userID, "")

	log := logger.NewNop()
	taskRepo := repos.NewTaskRepo(gdb, log)
	require.NoError(t, taskRepo.Create(context.Background(), nil, &types.Task{
		ID: uuid.New(), UserID: userID, Title: "Open task", Status: types.TaskPending,
	}))
	require.NoError(t, taskRepo.Create(context.Background(), nil, &types.Task{
		ID: uuid.New(), UserID: userID, Title: "Done task", Status: types.TaskCompleted,
	}))
	uniID := uuid.New()
	require.NoError(t, repos.NewShortlistRepo(gdb, log).Create(context.Background(), nil, &types.ShortlistEntry{
		ID: uuid.New(), UserID: userID, UniversityID: uniID, UniversityName: "Aurora", Category: types.CategoryTarget,
	}))

	out, err := a.Assemble(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, out.CurrentTasks, 1)
	assert.Equal(t, "Open task", out.CurrentTasks[0].Title)
	require.Len(t, out.ShortlistedIDs, 1)
	assert.Equal(t, uniID.String(), out.ShortlistedIDs[0])
}
