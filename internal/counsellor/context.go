package counsellor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
)

// ErrProfileNotFound is returned when the user has no profile yet. It is
// the only counsellor failure that reaches the HTTP layer; everything else
// degrades into a well-formed response.
var ErrProfileNotFound = errors.New("profile not found")

// Prompt-size bounds. Hard caps, not tunables: the model never sees more
// than maxUniversitySample schools no matter how many the provider returns.
const (
	maxUniversityCandidates = 30
	maxUniversitySample     = 15
)

// UniversityProvider supplies candidate universities for a target country.
// Implemented by the university service on top of the search client.
type UniversityProvider interface {
	FetchCandidates(ctx context.Context, country string, limit int) ([]Candidate, error)
}

// Context is the bounded JSON object sent to the model alongside the
// prompt. Assembled fresh per request from current storage state.
type Context struct {
	Profile          ContextProfile         `json:"user_profile"`
	CurrentTasks     []ContextTask          `json:"current_tasks"`
	ShortlistedIDs   []string               `json:"shortlisted_ids"`
	UniversitySample []ClassifiedUniversity `json:"available_universities_sample"`
}

type ContextProfile struct {
	Name    string `json:"name"`
	GPA     string `json:"gpa"`
	Major   string `json:"major"`
	Country string `json:"country"`
	Budget  string `json:"budget"`
	Stage   int    `json:"stage"`
}

type ContextTask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type Assembler struct {
	log        *logger.Logger
	profiles   repos.ProfileRepo
	tasks      repos.TaskRepo
	shortlists repos.ShortlistRepo
	provider   UniversityProvider
}

func NewAssembler(
	baseLog *logger.Logger,
	profileRepo repos.ProfileRepo,
	taskRepo repos.TaskRepo,
	shortlistRepo repos.ShortlistRepo,
	provider UniversityProvider,
) *Assembler {
	return &Assembler{
		log:        baseLog.With("component", "ContextAssembler"),
		profiles:   profileRepo,
		tasks:      taskRepo,
		shortlists: shortlistRepo,
		provider:   provider,
	}
}

func (a *Assembler) Assemble(ctx context.Context, userID uuid.UUID) (*Context, error) {
	profile, err := a.profiles.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	tasks, err := a.tasks.ListOpenByUser(ctx, nil, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	entries, err := a.shortlists.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load shortlist: %w", err)
	}

	out := &Context{
		Profile: ContextProfile{
			Name:    profile.FullName,
			GPA:     profile.GPA,
			Major:   profile.TargetMajor,
			Country: profile.TargetCountry,
			Budget:  profile.Budget,
			Stage:   profile.CurrentStage,
		},
		CurrentTasks:   make([]ContextTask, 0, len(tasks)),
		ShortlistedIDs: make([]string, 0, len(entries)),
	}
	for _, t := range tasks {
		out.CurrentTasks = append(out.CurrentTasks, ContextTask{
			ID:     t.ID.String(),
			Title:  t.Title,
			Status: t.Status,
		})
	}
	for _, e := range entries {
		out.ShortlistedIDs = append(out.ShortlistedIDs, e.UniversityID.String())
	}

	// University sample only makes sense once a target country exists.
	if profile.TargetCountry != "" && a.provider != nil {
		candidates, err := a.provider.FetchCandidates(ctx, profile.TargetCountry, maxUniversityCandidates)
		if err != nil {
			// The sample is contextual garnish; a provider outage must not
			// take the chat down.
			a.log.Warn("University candidate fetch failed, sending context without sample", "error", err)
		} else {
			if len(candidates) > maxUniversityCandidates {
				candidates = candidates[:maxUniversityCandidates]
			}
			classified := ClassifyAll(candidates, ParseGPA(profile.GPA))
			if len(classified) > maxUniversitySample {
				classified = classified[:maxUniversitySample]
			}
			out.UniversitySample = classified
		}
	}

	return out, nil
}
