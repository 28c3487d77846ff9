package counsellor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/clients/unisearch"
	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

// Action types the dispatcher understands. Anything else is reported as
// failed without aborting the batch.
const (
	ActionAddShortlist = "ADD_SHORTLIST"
	ActionAddTask      = "ADD_TASK"
	ActionUpdateStage  = "UPDATE_STAGE"
	ActionNavigate     = "NAVIGATE"
)

const (
	ActionStatusExecuted = "executed"
	ActionStatusSkipped  = "skipped"
	ActionStatusFailed   = "failed"
)

// aiTaskMarker flags tasks the counsellor created rather than the stage
// templates.
const aiTaskMarker = "AI generated"

// ActionResult records the outcome of one dispatched action.
type ActionResult struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Dispatcher executes model-proposed actions against the store. Actions
// run sequentially in proposal order and each failure is isolated: the
// batch always runs to the end and every action gets a result.
type Dispatcher struct {
	db           *gorm.DB
	log          *logger.Logger
	universities repos.UniversityRepo
	shortlists   repos.ShortlistRepo
	tasks        repos.TaskRepo
	profiles     repos.ProfileRepo
}

func NewDispatcher(
	db *gorm.DB,
	baseLog *logger.Logger,
	universities repos.UniversityRepo,
	shortlists repos.ShortlistRepo,
	tasks repos.TaskRepo,
	profiles repos.ProfileRepo,
) *Dispatcher {
	return &Dispatcher{
		db:           db,
		log:          baseLog.With("component", "ActionDispatcher"),
		universities: universities,
		shortlists:   shortlists,
		tasks:        tasks,
		profiles:     profiles,
	}
}

func (d *Dispatcher) Execute(ctx context.Context, userID uuid.UUID, actions []Action) []ActionResult {
	results := make([]ActionResult, 0, len(actions))
	for _, action := range actions {
		results = append(results, d.executeOne(ctx, userID, action))
	}
	return results
}

func (d *Dispatcher) executeOne(ctx context.Context, userID uuid.UUID, action Action) (result ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Action handler panicked", "action_type", action.Type, "panic", r)
			result = ActionResult{Type: action.Type, Status: ActionStatusFailed, Detail: "internal error"}
		}
	}()

	switch canonicalActionType(action.Type) {
	case ActionAddShortlist:
		return d.addShortlist(ctx, userID, action.Data)
	case ActionAddTask:
		return d.addTask(ctx, userID, action.Data)
	case ActionUpdateStage:
		return d.updateStage(ctx, userID, action.Data)
	case ActionNavigate:
		return d.navigate(action.Data)
	default:
		d.log.Warn("Model proposed an unknown action type", "action_type", action.Type)
		return ActionResult{Type: action.Type, Status: ActionStatusFailed, Detail: "unknown action type"}
	}
}

// canonicalActionType folds the lowercase aliases older prompts produced
// ("shortlist", "add_task") onto the catalogue types.
func canonicalActionType(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "SHORTLIST" {
		return ActionAddShortlist
	}
	return upper
}

// addShortlist resolves the named university (exact match, then
// case-insensitive, then a new row with deterministic mock stats) and
// upserts the shortlist entry. Re-dispatching the same action updates the
// category instead of duplicating the entry.
func (d *Dispatcher) addShortlist(ctx context.Context, userID uuid.UUID, data map[string]any) ActionResult {
	name := strings.TrimSpace(stringField(data, "uni_name", "university_name", "universityName", "name"))
	if name == "" {
		return ActionResult{Type: ActionAddShortlist, Status: ActionStatusFailed, Detail: "missing university_name"}
	}
	category := normalizeCategory(stringField(data, "category"))

	uni, err := d.resolveUniversity(ctx, name, stringField(data, "country"))
	if err != nil {
		d.log.Error("Could not resolve shortlisted university", "name", name, "error", err)
		return ActionResult{Type: ActionAddShortlist, Status: ActionStatusFailed, Detail: "university lookup failed"}
	}

	entry := &types.ShortlistEntry{
		UserID:         userID,
		UniversityID:   uni.ID,
		UniversityName: uni.Name,
		Country:        uni.Country,
		Category:       category,
	}
	if err := d.shortlists.Upsert(ctx, nil, entry); err != nil {
		d.log.Error("Shortlist upsert failed", "name", name, "error", err)
		return ActionResult{Type: ActionAddShortlist, Status: ActionStatusFailed, Detail: "could not save shortlist entry"}
	}
	return ActionResult{
		Type:   ActionAddShortlist,
		Status: ActionStatusExecuted,
		Detail: fmt.Sprintf("%s shortlisted as %s", uni.Name, category),
	}
}

func (d *Dispatcher) resolveUniversity(ctx context.Context, name, country string) (*types.University, error) {
	uni, err := d.universities.GetByName(ctx, nil, name)
	if err != nil {
		return nil, err
	}
	if uni == nil {
		uni, err = d.universities.GetByNameInsensitive(ctx, nil, name)
		if err != nil {
			return nil, err
		}
	}
	if uni != nil {
		return uni, nil
	}

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
	if err := d.universities.Create(ctx, nil, uni); err != nil {
		return nil, err
	}
	return uni, nil
}

// addTask creates a pending task unless an open task with the same title
// already exists. The model tends to re-propose its own suggestions.
func (d *Dispatcher) addTask(ctx context.Context, userID uuid.UUID, data map[string]any) ActionResult {
	title := strings.TrimSpace(stringField(data, "title", "task", "name"))
	if title == "" {
		return ActionResult{Type: ActionAddTask, Status: ActionStatusFailed, Detail: "missing title"}
	}

	exists, err := d.tasks.OpenTitleExists(ctx, nil, userID, title)
	if err != nil {
		d.log.Error("Task duplicate check failed", "title", title, "error", err)
		return ActionResult{Type: ActionAddTask, Status: ActionStatusFailed, Detail: "could not check existing tasks"}
	}
	if exists {
		return ActionResult{Type: ActionAddTask, Status: ActionStatusSkipped, Detail: fmt.Sprintf("open task %q already exists", title)}
	}

	// Tasks created here always carry the marker so AI-originated work
	// stays distinguishable from the stage templates.
	description := strings.TrimSpace(stringField(data, "description"))
	switch {
	case description == "":
		description = aiTaskMarker
	case !strings.Contains(description, aiTaskMarker):
		description = fmt.Sprintf("%s (%s)", description, aiTaskMarker)
	}
	now := time.Now().UTC()
	task := &types.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      types.TaskPending,
		Category:    stringField(data, "category"),
		Priority:    defaultString(stringField(data, "priority"), "Medium"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.tasks.Create(ctx, nil, task); err != nil {
		d.log.Error("Task create failed", "title", title, "error", err)
		return ActionResult{Type: ActionAddTask, Status: ActionStatusFailed, Detail: "could not save task"}
	}
	return ActionResult{Type: ActionAddTask, Status: ActionStatusExecuted, Detail: fmt.Sprintf("task %q added", title)}
}

// updateStage advances the journey stage. Stages only move forward; a
// proposed stage at or below the current one is a no-op, never a
// regression.
func (d *Dispatcher) updateStage(ctx context.Context, userID uuid.UUID, data map[string]any) ActionResult {
	stage, ok := intField(data, "stage", "new_stage")
	if !ok {
		return ActionResult{Type: ActionUpdateStage, Status: ActionStatusFailed, Detail: "missing stage"}
	}
	if stage < types.StageSignup {
		stage = types.StageSignup
	}
	if stage > types.StageApplication {
		stage = types.StageApplication
	}

	advanced, err := d.profiles.AdvanceStage(ctx, nil, userID, stage)
	if err != nil {
		d.log.Error("Stage advance failed", "stage", stage, "error", err)
		return ActionResult{Type: ActionUpdateStage, Status: ActionStatusFailed, Detail: "could not update stage"}
	}
	if !advanced {
		return ActionResult{Type: ActionUpdateStage, Status: ActionStatusSkipped, Detail: fmt.Sprintf("already at or past stage %d", stage)}
	}
	return ActionResult{Type: ActionUpdateStage, Status: ActionStatusExecuted, Detail: fmt.Sprintf("stage advanced to %d", stage)}
}

// navigate has no server side effect. The result is passed through so the
// client can route.
func (d *Dispatcher) navigate(data map[string]any) ActionResult {
	target := stringField(data, "to", "path", "page")
	if target == "" {
		return ActionResult{Type: ActionNavigate, Status: ActionStatusFailed, Detail: "missing navigation target"}
	}
	return ActionResult{Type: ActionNavigate, Status: ActionStatusExecuted, Detail: target}
}

func normalizeCategory(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dream":
		return types.CategoryDream
	case "safe":
		return types.CategorySafe
	default:
		return types.CategoryTarget
	}
}

func stringField(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(data map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := data[key].(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		case string:
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
