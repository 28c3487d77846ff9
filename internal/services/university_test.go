package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/clients/unisearch"
	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

type fakeSearcher struct {
	results []unisearch.Result
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, q unisearch.Query) ([]unisearch.Result, error) {
	f.calls++
	return f.results, f.err
}

func newTestUniversityService(t *testing.T, gdb *gorm.DB, searcher unisearch.Searcher) UniversityService {
	t.Helper()
	log := logger.NewNop()
	return NewUniversityService(
		gdb,
		log,
		repos.NewUniversityRepo(gdb, log),
		repos.NewShortlistRepo(gdb, log),
		repos.NewProfileRepo(gdb, log),
		searcher,
	)
}

func TestDiscoverPrefersCatalogue(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	searcher := &fakeSearcher{}
	svc := newTestUniversityService(t, gdb, searcher)
	ctx := context.Background()

	seedUniversity(t, gdb, "Aurora Institute")
	seedUniversity(t, gdb, "Borealis College")

	out, err := svc.Discover(ctx, userID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 0, searcher.calls, "catalogue hit must not reach the search provider")
	for _, u := range out {
		assert.NotEmpty(t, u.Category)
		assert.False(t, u.Shortlisted)
	}
}

func TestDiscoverFallsBackToSearchAndMaterializes(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	searcher := &fakeSearcher{results: []unisearch.Result{
		{Name: "Maple University", Country: "Canada", Domains: []string{"maple.ca"}},
	}}
	svc := newTestUniversityService(t, gdb, searcher)
	ctx := context.Background()

	out, err := svc.Discover(ctx, userID, DiscoverFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, searcher.calls)
	assert.Greater(t, out[0].Ranking, 0)
	assert.NotEmpty(t, out[0].TuitionFee)

	// The hit now lives in the catalogue; a second discovery stays local.
	out2, err := svc.Discover(ctx, userID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Len(t, out2, 1)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, out[0].ID, out2[0].ID)
}

func TestShortlistRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	svc := newTestUniversityService(t, gdb, &fakeSearcher{})
	ctx := context.Background()
	uni := seedUniversity(t, gdb, "Aurora Institute")

	entry, err := svc.AddToShortlist(ctx, userID, &ShortlistInput{
		UniversityID: uni.ID.String(),
		Category:     types.CategoryDream,
	})
	require.NoError(t, err)
	assert.Equal(t, "Aurora Institute", entry.UniversityName)

	entries, err := svc.ListShortlist(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Discovery marks the shortlisted row.
	seedUniversity(t, gdb, "Borealis College")
	out, err := svc.Discover(ctx, userID, DiscoverFilter{})
	require.NoError(t, err)
	marked := 0
	for _, u := range out {
		if u.Shortlisted {
			marked++
			assert.Equal(t, uni.ID.String(), u.ID)
		}
	}
	assert.Equal(t, 1, marked)

	require.NoError(t, svc.RemoveFromShortlist(ctx, userID, entries[0].ID))
	entries, err = svc.ListShortlist(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddToShortlistByUnknownNameCreatesRow(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	svc := newTestUniversityService(t, gdb, &fakeSearcher{})
	ctx := context.Background()

	entry, err := svc.AddToShortlist(ctx, userID, &ShortlistInput{Name: "Hidden Gem University"})
	require.NoError(t, err)
	assert.Equal(t, types.CategoryTarget, entry.Category, "missing category defaults to Target")

	var uni types.University
	require.NoError(t, gdb.Where("name = ?", "Hidden Gem University").First(&uni).Error)
	assert.Equal(t, "Unknown", uni.Country)
	assert.Greater(t, uni.Ranking, 0)

	_, err = svc.AddToShortlist(ctx, userID, &ShortlistInput{})
	assert.Error(t, err)
}

func TestRecommendGroupsByCategory(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	svc := newTestUniversityService(t, gdb, &fakeSearcher{})
	ctx := context.Background()

	unis := []*types.University{
		{ID: uuid.New(), Name: "Ivy", Country: "Canada", Ranking: 5, AcceptanceRate: 0.1},
		{ID: uuid.New(), Name: "Mid", Country: "Canada", Ranking: 80, AcceptanceRate: 0.4},
		{ID: uuid.New(), Name: "Open Door", Country: "Canada", Ranking: 400, AcceptanceRate: 0.8},
	}
	repo := repos.NewUniversityRepo(gdb, logger.NewNop())
	for _, u := range unis {
		require.NoError(t, repo.Create(ctx, nil, u))
	}

	set, err := svc.Recommend(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, set.Dream, 1)
	assert.Len(t, set.Target, 1)
	assert.Len(t, set.Safe, 1)
}

func TestFetchCandidatesServesCounsellorSample(t *testing.T) {
	gdb := newTestDB(t)
	registerTestUser(t, gdb, types.StageDiscovery)
	searcher := &fakeSearcher{results: []unisearch.Result{{Name: "Remote U", Country: "Norway"}}}
	svc := newTestUniversityService(t, gdb, searcher)
	ctx := context.Background()

	// Empty catalogue falls through to search without persisting.
	candidates, err := svc.FetchCandidates(ctx, "Norway", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Remote U", candidates[0].Name)

	seedUniversity(t, gdb, "Aurora Institute")
	candidates, err = svc.FetchCandidates(ctx, "Canada", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Aurora Institute", candidates[0].Name)
	assert.Equal(t, 1, searcher.calls)
}
