package counsellor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/educompass/educompass-backend/internal/logger"
)

// ChatResult is the normalized envelope every chat turn produces. Success
// is false only for degraded turns; executed, skipped and failed actions
// are all reported, never silently dropped.
type ChatResult struct {
	Success         bool             `json:"success"`
	AIMessage       string           `json:"ai_message"`
	Analysis        string           `json:"analysis,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
	ActionsExecuted []string         `json:"actions_executed"`
	ActionResults   []ActionResult   `json:"action_results"`
	OriginalActions []Action         `json:"original_actions,omitempty"`
	ErrorKind       ErrorKind        `json:"error_kind,omitempty"`
}

// Engine runs the full counsellor turn: assemble context, build the
// prompt, call the model, dispatch any proposed actions and normalize the
// outcome. The only error it returns is ErrProfileNotFound (wrapped);
// model and dispatch failures degrade into the result instead.
type Engine struct {
	log        *logger.Logger
	assembler  *Assembler
	gateway    *Gateway
	dispatcher *Dispatcher
}

func NewEngine(baseLog *logger.Logger, assembler *Assembler, gateway *Gateway, dispatcher *Dispatcher) *Engine {
	return &Engine{
		log:        baseLog.With("component", "CounsellorEngine"),
		assembler:  assembler,
		gateway:    gateway,
		dispatcher: dispatcher,
	}
}

func (e *Engine) Chat(ctx context.Context, userID uuid.UUID, message string) (*ChatResult, error) {
	promptCtx, err := e.assembler.Assemble(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	prompt := BuildPrompt(SystemInstruction, promptCtx, message)
	modelResp := e.gateway.Generate(ctx, prompt)

	result := &ChatResult{
		Success:         modelResp.ErrorKind == ErrorKindNone,
		AIMessage:       modelResp.Message,
		Analysis:        modelResp.Analysis,
		Recommendations: modelResp.Recommendations,
		ActionsExecuted: []string{},
		ActionResults:   []ActionResult{},
		ErrorKind:       modelResp.ErrorKind,
	}

	if len(modelResp.Actions) == 0 {
		return result, nil
	}

	result.OriginalActions = modelResp.Actions
	result.ActionResults = e.dispatcher.Execute(ctx, userID, modelResp.Actions)
	for _, ar := range result.ActionResults {
		if ar.Status == ActionStatusExecuted {
			result.ActionsExecuted = append(result.ActionsExecuted, describeAction(ar))
		} else {
			e.log.Info("Action not executed", "action_type", ar.Type, "status", ar.Status, "detail", ar.Detail)
		}
	}

	return result, nil
}

func describeAction(ar ActionResult) string {
	if ar.Detail == "" {
		return ar.Type
	}
	return fmt.Sprintf("%s: %s", ar.Type, ar.Detail)
}
