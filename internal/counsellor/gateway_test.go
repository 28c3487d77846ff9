package counsellor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educompass/educompass-backend/internal/clients/gemini"
	"github.com/educompass/educompass-backend/internal/logger"
)

type fakeGenerator struct {
	configured bool
	output     string
	err        error
	calls      int
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.output, f.err
}

func newTestGateway(gen gemini.TextGenerator) *Gateway {
	return NewGateway(logger.NewNop(), gen)
}

func TestGatewayConfigGuardSkipsModelCall(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	gw := newTestGateway(gen)

	resp := gw.Generate(context.Background(), "hello")

	require.NotNil(t, resp)
	assert.Equal(t, ErrorKindConfiguration, resp.ErrorKind)
	assert.Equal(t, ResponseTextOnly, resp.Kind)
	assert.NotEmpty(t, resp.Message)
	assert.NotNil(t, resp.Actions)
	assert.Equal(t, 0, gen.calls, "unconfigured gateway must not touch the generator")
}

func TestGatewayParsesFencedJSON(t *testing.T) {
	gen := &fakeGenerator{configured: true, output: "Here you go:\n```json\n" + `{
		"thought": "t",
		"message": "Try MIT",
		"analysis": "strong profile",
		"recommendations": {"dream": ["MIT"]},
		"actions": [{"type": "ADD_SHORTLIST", "data": {"uni_name": "MIT", "category": "Dream"}}]
	}` + "\n```"}
	gw := newTestGateway(gen)

	resp := gw.Generate(context.Background(), "prompt")

	require.Equal(t, ResponseStructured, resp.Kind)
	assert.Equal(t, ErrorKindNone, resp.ErrorKind)
	assert.Equal(t, "Try MIT", resp.Message)
	assert.Equal(t, "strong profile", resp.Analysis)
	require.NotNil(t, resp.Recommendations)
	assert.Equal(t, []string{"MIT"}, resp.Recommendations.Dream)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, "ADD_SHORTLIST", resp.Actions[0].Type)
	assert.Equal(t, "MIT", resp.Actions[0].Data["uni_name"])
}

func TestGatewayFallsBackToRawTextWhenNoJSON(t *testing.T) {
	gen := &fakeGenerator{configured: true, output: "I cannot answer in JSON today."}
	gw := newTestGateway(gen)

	resp := gw.Generate(context.Background(), "prompt")

	assert.Equal(t, ResponseTextOnly, resp.Kind)
	assert.Equal(t, ErrorKindMalformed, resp.ErrorKind)
	assert.Equal(t, "I cannot answer in JSON today.", resp.Message)
	assert.Empty(t, resp.Actions)
}

func TestGatewayMessageKeyShim(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"response key", `{"response": "hi there", "actions": []}`, "hi there"},
		{"answer key", `{"answer": "use answer", "actions": []}`, "use answer"},
		{"text key", `{"text": "use text", "actions": []}`, "use text"},
		{"content key", `{"content": "use content", "actions": []}`, "use content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(&fakeGenerator{configured: true, output: tt.output})
			resp := gw.Generate(context.Background(), "prompt")
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestGatewayUpstreamVersusNetworkErrors(t *testing.T) {
	upstream := &fakeGenerator{configured: true, err: &gemini.UpstreamError{Status: 429, Err: fmt.Errorf("quota")}}
	resp := newTestGateway(upstream).Generate(context.Background(), "p")
	assert.Equal(t, ErrorKindUpstream, resp.ErrorKind)

	network := &fakeGenerator{configured: true, err: fmt.Errorf("dial tcp: connection refused")}
	resp = newTestGateway(network).Generate(context.Background(), "p")
	assert.Equal(t, ErrorKindNetwork, resp.ErrorKind)

	assert.NotEmpty(t, resp.Message)
	assert.NotNil(t, resp.Actions)
}

func TestActionUnmarshalToleratesFlatFields(t *testing.T) {
	var nested Action
	require.NoError(t, json.Unmarshal([]byte(`{"type": "ADD_TASK", "data": {"task": "Book IELTS"}}`), &nested))
	assert.Equal(t, "ADD_TASK", nested.Type)
	assert.Equal(t, "Book IELTS", nested.Data["task"])

	var flat Action
	require.NoError(t, json.Unmarshal([]byte(`{"type": "ADD_TASK", "task": "Book IELTS", "priority": "High"}`), &flat))
	assert.Equal(t, "ADD_TASK", flat.Type)
	assert.Equal(t, "Book IELTS", flat.Data["task"])
	assert.Equal(t, "High", flat.Data["priority"])
}

func TestExtractJSONObjectSkipsBracesInStrings(t *testing.T) {
	raw := `prefix {"message": "use {curly} braces", "actions": []} suffix`
	got, ok := extractJSONObject(raw)
	require.True(t, ok)
	assert.Equal(t, `{"message": "use {curly} braces", "actions": []}`, got)

	_, ok = extractJSONObject("no json here")
	assert.False(t, ok)
}
