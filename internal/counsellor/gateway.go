package counsellor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/educompass/educompass-backend/internal/clients/gemini"
	"github.com/educompass/educompass-backend/internal/logger"
)

// ErrorKind tags the failure mode behind a degraded response.
type ErrorKind string

const (
	ErrorKindNone          ErrorKind = ""
	ErrorKindConfiguration ErrorKind = "configuration_error"
	ErrorKindNetwork       ErrorKind = "network_error"
	ErrorKindUpstream      ErrorKind = "upstream_error"
	ErrorKindMalformed     ErrorKind = "malformed_response"
)

// ResponseKind distinguishes a fully structured model reply from a raw
// text fallback.
type ResponseKind string

const (
	ResponseStructured ResponseKind = "structured"
	ResponseTextOnly   ResponseKind = "text_only"
)

// Action is one structured instruction from the model. Data holds the
// type-specific payload; older model replies put those fields flat on the
// action object, so unmarshalling tolerates both shapes.
type Action struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func (a *Action) UnmarshalJSON(raw []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	a.Type, _ = fields["type"].(string)
	if data, ok := fields["data"].(map[string]any); ok {
		a.Data = data
		return nil
	}
	a.Data = make(map[string]any, len(fields))
	for k, v := range fields {
		if k != "type" {
			a.Data[k] = v
		}
	}
	return nil
}

type Recommendations struct {
	Dream  []string `json:"dream,omitempty"`
	Target []string `json:"target,omitempty"`
	Safe   []string `json:"safe,omitempty"`
}

// ModelResponse is the validated union every chat turn reduces to. The
// zero ErrorKind means the model answered; anything else marks a degraded
// response that is still fully usable by the caller.
type ModelResponse struct {
	Kind            ResponseKind     `json:"kind"`
	ErrorKind       ErrorKind        `json:"error_kind,omitempty"`
	Thought         string           `json:"thought,omitempty"`
	Message         string           `json:"message"`
	Analysis        string           `json:"analysis,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
	Actions         []Action         `json:"actions"`
}

const (
	gatewayTimeout     = 20 * time.Second
	unavailableMessage = "The AI counsellor is not available right now. Please try again in a moment."
)

// Gateway turns a prompt into a ModelResponse. It never returns an error:
// configuration, network, upstream and parse failures all degrade into a
// tagged, well-formed response so the pipeline downstream stays simple.
type Gateway struct {
	log       *logger.Logger
	generator gemini.TextGenerator
}

func NewGateway(baseLog *logger.Logger, generator gemini.TextGenerator) *Gateway {
	return &Gateway{
		log:       baseLog.With("component", "ModelGateway"),
		generator: generator,
	}
}

func (g *Gateway) Generate(ctx context.Context, prompt string) *ModelResponse {
	if g.generator == nil || !g.generator.Configured() {
		g.log.Warn("Model credential not configured, returning degraded response")
		return degraded(ErrorKindConfiguration)
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	raw, err := g.generator.GenerateText(callCtx, prompt)
	if err != nil {
		var upstream *gemini.UpstreamError
		if errors.As(err, &upstream) {
			g.log.Error("Model returned an error status", "status", upstream.Status, "error", err)
			return degraded(ErrorKindUpstream)
		}
		g.log.Error("Model call failed before a response arrived", "error", err)
		return degraded(ErrorKindNetwork)
	}

	return g.parse(raw)
}

func degraded(kind ErrorKind) *ModelResponse {
	return &ModelResponse{
		Kind:      ResponseTextOnly,
		ErrorKind: kind,
		Message:   unavailableMessage,
		Actions:   []Action{},
	}
}

// parse extracts and validates the JSON object embedded in the raw model
// output. The model may wrap it in prose or markdown fences despite the
// instruction; anything unusable falls back to the raw text as message.
func (g *Gateway) parse(raw string) *ModelResponse {
	jsonText, ok := extractJSONObject(raw)
	if !ok {
		g.log.Warn("No JSON object found in model output, returning raw text", "response_chars", len(raw))
		return &ModelResponse{
			Kind:      ResponseTextOnly,
			ErrorKind: ErrorKindMalformed,
			Message:   raw,
			Actions:   []Action{},
		}
	}

	var parsed struct {
		Thought         string           `json:"thought"`
		Message         string           `json:"message"`
		Analysis        string           `json:"analysis"`
		Recommendations *Recommendations `json:"recommendations"`
		Actions         []Action         `json:"actions"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		g.log.Warn("Model output JSON did not parse, returning raw text", "error", err)
		return &ModelResponse{
			Kind:      ResponseTextOnly,
			ErrorKind: ErrorKindMalformed,
			Message:   raw,
			Actions:   []Action{},
		}
	}

	message := parsed.Message
	if message == "" {
		message = fallbackMessage(jsonText)
	}

	actions := parsed.Actions
	if actions == nil {
		actions = []Action{}
	}

	return &ModelResponse{
		Kind:            ResponseStructured,
		Thought:         parsed.Thought,
		Message:         message,
		Analysis:        parsed.Analysis,
		Recommendations: parsed.Recommendations,
		Actions:         actions,
	}
}

// fallbackMessage recovers a usable message when the model ignored the
// 'message' key. The alternate-key order is part of the compatibility
// contract; upstream output format is not guaranteed.
func fallbackMessage(jsonText string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return jsonText
	}
	for _, key := range []string{"response", "answer", "text", "content"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return jsonText
}

// extractJSONObject returns the first balanced {...} substring, skipping
// braces inside JSON string literals.
func extractJSONObject(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
