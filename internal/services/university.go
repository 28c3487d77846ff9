package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/clients/unisearch"
	"github.com/educompass/educompass-backend/internal/counsellor"
	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

const defaultDiscoveryLimit = 30

// DiscoverFilter narrows a discovery query. Zero values mean no filter.
type DiscoverFilter struct {
	Country    string
	Name       string
	MaxTuition int
	MaxRanking int
	Limit      int
}

// DiscoveredUniversity is one catalogue row classified against the
// requesting user's GPA.
type DiscoveredUniversity struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	Ranking        int     `json:"ranking"`
	TuitionFee     string  `json:"tuition_fee"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Category       string  `json:"category"`
	Shortlisted    bool    `json:"shortlisted"`
}

// RecommendationSet groups discovered universities by admission likelihood.
type RecommendationSet struct {
	Dream  []DiscoveredUniversity `json:"dream"`
	Target []DiscoveredUniversity `json:"target"`
	Safe   []DiscoveredUniversity `json:"safe"`
}

type ShortlistInput struct {
	UniversityID string `json:"university_id"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	Category     string `json:"category"`
}

type UniversityService interface {
	Discover(ctx context.Context, userID uuid.UUID, filter DiscoverFilter) ([]DiscoveredUniversity, error)
	Recommend(ctx context.Context, userID uuid.UUID) (*RecommendationSet, error)
	AddToShortlist(ctx context.Context, userID uuid.UUID, input *ShortlistInput) (*types.ShortlistEntry, error)
	ListShortlist(ctx context.Context, userID uuid.UUID) ([]*types.ShortlistEntry, error)
	RemoveFromShortlist(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) error

	// FetchCandidates feeds the counsellor's context sample.
	FetchCandidates(ctx context.Context, country string, limit int) ([]counsellor.Candidate, error)
}

type universityService struct {
	db             *gorm.DB
	log            *logger.Logger
	universityRepo repos.UniversityRepo
	shortlistRepo  repos.ShortlistRepo
	profileRepo    repos.ProfileRepo
	searcher       unisearch.Searcher
}

func NewUniversityService(
	db *gorm.DB,
	log *logger.Logger,
	universityRepo repos.UniversityRepo,
	shortlistRepo repos.ShortlistRepo,
	profileRepo repos.ProfileRepo,
	searcher unisearch.Searcher,
) UniversityService {
	return &universityService{
		db:             db,
		log:            log.With("service", "UniversityService"),
		universityRepo: universityRepo,
		shortlistRepo:  shortlistRepo,
		profileRepo:    profileRepo,
		searcher:       searcher,
	}
}

// Discover lists universities for the user's search, preferring the local
// catalogue and falling back to the external search provider when the
// catalogue has nothing for the country. Every row comes back classified
// against the user's GPA and flagged if already shortlisted.
func (us *universityService) Discover(ctx context.Context, userID uuid.UUID, filter DiscoverFilter) ([]DiscoveredUniversity, error) {
	profile, err := us.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	gpa := 3.0
	country := filter.Country
	if profile != nil {
		gpa = counsellor.ParseGPA(profile.GPA)
		if country == "" {
			country = profile.TargetCountry
		}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultDiscoveryLimit
	}

	rows, err := us.universityRepo.List(ctx, nil, repos.UniversityListFilter{
		Country:    country,
		MaxTuition: filter.MaxTuition,
		MaxRanking: filter.MaxRanking,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}

	var out []DiscoveredUniversity
	if len(rows) > 0 {
		out = us.fromCatalogue(rows, filter.Name, gpa)
	} else {
		out, err = us.fromSearch(ctx, country, filter.Name, gpa, limit)
		if err != nil {
			return nil, err
		}
	}

	us.markShortlisted(ctx, userID, out)
	return out, nil
}

func (us *universityService) fromCatalogue(rows []*types.University, nameFilter string, gpa float64) []DiscoveredUniversity {
	out := make([]DiscoveredUniversity, 0, len(rows))
	for _, row := range rows {
		if nameFilter != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(nameFilter)) {
			continue
		}
		classified := counsellor.Classify(counsellor.Candidate{
			Name:           row.Name,
			Country:        row.Country,
			Ranking:        row.Ranking,
			AcceptanceRate: row.AcceptanceRate,
			TuitionFee:     row.TuitionFee,
		}, gpa)
		out = append(out, DiscoveredUniversity{
			ID:             row.ID.String(),
			Name:           row.Name,
			Country:        row.Country,
			Ranking:        classified.Stats.Ranking,
			TuitionFee:     row.TuitionFee,
			AcceptanceRate: classified.Stats.AcceptanceRate,
			Category:       classified.Category,
		})
	}
	return out
}

// fromSearch queries the external provider and materializes the hits into
// the catalogue so later lookups and shortlisting hit local rows.
func (us *universityService) fromSearch(ctx context.Context, country, name string, gpa float64, limit int) ([]DiscoveredUniversity, error) {
	results, err := us.searcher.Search(ctx, unisearch.Query{Country: country, Name: name})
	if err != nil {
		return nil, fmt.Errorf("university search failed: %w", err)
	}
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]DiscoveredUniversity, 0, len(results))
	for _, r := range results {
		row, mErr := us.materialize(ctx, r)
		if mErr != nil {
			us.log.Warn("Could not materialize search result", "name", r.Name, "error", mErr)
			continue
		}
		classified := counsellor.Classify(counsellor.Candidate{
			Name:           row.Name,
			Country:        row.Country,
			Ranking:        row.Ranking,
			AcceptanceRate: row.AcceptanceRate,
		}, gpa)
		out = append(out, DiscoveredUniversity{
			ID:             row.ID.String(),
			Name:           row.Name,
			Country:        row.Country,
			Ranking:        row.Ranking,
			TuitionFee:     row.TuitionFee,
			AcceptanceRate: row.AcceptanceRate,
			Category:       classified.Category,
		})
	}
	return out, nil
}

// materialize inserts a search hit as a catalogue row with deterministic
// mock stats, reusing the existing row when the name is already known.
func (us *universityService) materialize(ctx context.Context, r unisearch.Result) (*types.University, error) {
	existing, err := us.universityRepo.GetByNameInsensitive(ctx, nil, r.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	sourceID := ""
	if len(r.Domains) > 0 {
		sourceID = r.Domains[0]
	}
	now := time.Now().UTC()
	row := &types.University{
		ID:             uuid.New(),
		SourceID:       sourceID,
		Name:           r.Name,
		Country:        r.Country,
		Ranking:        unisearch.MockRanking(r.Name),
		TuitionFee:     strconv.Itoa(unisearch.MockTuition(r.Name)),
		AcceptanceRate: unisearch.MockAcceptanceRate(r.Name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if cErr := us.universityRepo.Create(ctx, nil, row); cErr != nil {
		return nil, cErr
	}
	return row, nil
}

func (us *universityService) markShortlisted(ctx context.Context, userID uuid.UUID, rows []DiscoveredUniversity) {
	entries, err := us.shortlistRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		us.log.Warn("Could not load shortlist for marking", "error", err)
		return
	}
	shortlisted := make(map[string]bool, len(entries))
	for _, e := range entries {
		shortlisted[e.UniversityID.String()] = true
	}
	for i := range rows {
		rows[i].Shortlisted = shortlisted[rows[i].ID]
	}
}

// Recommend returns the user's discovery results grouped into Dream,
// Target and Safe buckets.
func (us *universityService) Recommend(ctx context.Context, userID uuid.UUID) (*RecommendationSet, error) {
	discovered, err := us.Discover(ctx, userID, DiscoverFilter{})
	if err != nil {
		return nil, err
	}
	set := &RecommendationSet{
		Dream:  []DiscoveredUniversity{},
		Target: []DiscoveredUniversity{},
		Safe:   []DiscoveredUniversity{},
	}
	for _, d := range discovered {
		switch d.Category {
		case types.CategoryDream:
			set.Dream = append(set.Dream, d)
		case types.CategorySafe:
			set.Safe = append(set.Safe, d)
		default:
			set.Target = append(set.Target, d)
		}
	}
	return set, nil
}

// AddToShortlist shortlists a university by catalogue ID or by name.
// Re-adding an already shortlisted university updates its category.
func (us *universityService) AddToShortlist(ctx context.Context, userID uuid.UUID, input *ShortlistInput) (*types.ShortlistEntry, error) {
	uni, err := us.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	if uni == nil {
		return nil, fmt.Errorf("university not found")
	}

	category := input.Category
	switch category {
	case types.CategoryDream, types.CategoryTarget, types.CategorySafe:
	default:
		category = types.CategoryTarget
	}

	entry := &types.ShortlistEntry{
		UserID:         userID,
		UniversityID:   uni.ID,
		UniversityName: uni.Name,
		Country:        uni.Country,
		Category:       category,
	}
	if err := us.shortlistRepo.Upsert(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to save shortlist entry: %w", err)
	}
	return entry, nil
}

func (us *universityService) resolve(ctx context.Context, input *ShortlistInput) (*types.University, error) {
	if input.UniversityID != "" {
		id, err := uuid.Parse(input.UniversityID)
		if err != nil {
			return nil, fmt.Errorf("invalid university id")
		}
		return us.universityRepo.GetByID(ctx, nil, id)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("university_id or name is required")
	}
	uni, err := us.universityRepo.GetByNameInsensitive(ctx, nil, name)
	if err != nil || uni != nil {
		return uni, err
	}

	country := input.Country
	if country == "" {
		country = "Unknown"
	}
	now := time.Now().UTC()
	uni = &types.University{
		ID:             uuid.New(),
		Name:           name,
		Country:        country,
		Ranking:        unisearch.MockRanking(name),
		TuitionFee:     strconv.Itoa(unisearch.MockTuition(name)),
		AcceptanceRate: unisearch.MockAcceptanceRate(name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if cErr := us.universityRepo.Create(ctx, nil, uni); cErr != nil {
		return nil, cErr
	}
	return uni, nil
}

func (us *universityService) ListShortlist(ctx context.Context, userID uuid.UUID) ([]*types.ShortlistEntry, error) {
	entries, err := us.shortlistRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlist: %w", err)
	}
	return entries, nil
}

func (us *universityService) RemoveFromShortlist(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) error {
	if err := us.shortlistRepo.Delete(ctx, nil, userID, entryID); err != nil {
		return fmt.Errorf("failed to remove shortlist entry: %w", err)
	}
	return nil
}

// FetchCandidates implements the counsellor's university provider. It
// serves from the catalogue when possible and falls back to the search
// provider, without classifying; the caller owns classification.
func (us *universityService) FetchCandidates(ctx context.Context, country string, limit int) ([]counsellor.Candidate, error) {
	if limit <= 0 {
		limit = defaultDiscoveryLimit
	}

	rows, err := us.universityRepo.List(ctx, nil, repos.UniversityListFilter{Country: country, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	if len(rows) > 0 {
		candidates := make([]counsellor.Candidate, 0, len(rows))
		for _, row := range rows {
			candidates = append(candidates, counsellor.Candidate{
				Name:           row.Name,
				Country:        row.Country,
				Ranking:        row.Ranking,
				AcceptanceRate: row.AcceptanceRate,
				TuitionFee:     row.TuitionFee,
			})
		}
		return candidates, nil
	}

	results, err := us.searcher.Search(ctx, unisearch.Query{Country: country})
	if err != nil {
		return nil, fmt.Errorf("university search failed: %w", err)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	candidates := make([]counsellor.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, counsellor.Candidate{Name: r.Name, Country: r.Country})
	}
	return candidates, nil
}
