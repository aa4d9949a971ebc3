package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"audio-schema-go/internal/extractor"
	"audio-schema-go/internal/metrics"
	"audio-schema-go/internal/types"
)

// mockService uploads instantly and replays a scripted activation sequence
// and canned model reply.
type mockService struct {
	uploadErr error
	states    []types.AssetState
	replyText string
	usage     types.Usage

	getCalls  int
	genCalls  int
	gotModel  string
	gotPrompt string
	gotAsset  *types.Asset
}

func (m *mockService) UploadFile(ctx context.Context, path string) (*types.Asset, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &types.Asset{Name: "files/mock", URI: "https://files/mock", MIMEType: "audio/wav", State: types.StateProcessing}, nil
}

func (m *mockService) GetFile(ctx context.Context, name string) (*types.Asset, error) {
	i := m.getCalls
	m.getCalls++
	if i >= len(m.states) {
		i = len(m.states) - 1
	}
	return &types.Asset{Name: name, URI: "https://files/mock", MIMEType: "audio/wav", State: m.states[i]}, nil
}

func (m *mockService) GenerateContent(ctx context.Context, model, prompt string, asset *types.Asset) (*types.Response, error) {
	m.genCalls++
	m.gotModel = model
	m.gotPrompt = prompt
	m.gotAsset = asset
	return &types.Response{
		Candidates: []types.Candidate{{Parts: []types.Part{{Text: m.replyText}}}},
		Usage:      m.usage,
	}, nil
}

var fastConfig = Config{
	ActivationTimeout: time.Second,
	PollInterval:      time.Millisecond,
	RetryBaseDelay:    time.Millisecond,
}

func TestRunEndToEnd(t *testing.T) {
	svc := &mockService{
		states:    []types.AssetState{types.StateActive},
		replyText: "```json\n{\"@type\":\"AudioObject\"}\n```",
		usage:     types.Usage{InputTokens: 100, OutputTokens: 50},
	}

	schema, err := New(svc, fastConfig).Run(context.Background(), "talk.wav")
	require.NoError(t, err)
	require.Equal(t, "AudioObject", schema["@type"])

	report, ok := schema["metrics"].(metrics.Report)
	require.True(t, ok, "metrics key must hold the telemetry report")
	require.Equal(t, int32(100), report.InputTokens)
	require.Equal(t, int32(50), report.OutputTokens)
	require.Greater(t, report.EstimatedCostUSD, 0.0)
	for name, v := range map[string]float64{
		"upload":          report.Timings.Upload,
		"file_processing": report.Timings.FileProcessing,
		"inference":       report.Timings.Inference,
		"text_extraction": report.Timings.TextExtraction,
		"json_parsing":    report.Timings.JSONParsing,
		"total_execution": report.Timings.TotalExecution,
	} {
		require.GreaterOrEqual(t, v, 0.0, "timing %s", name)
	}

	require.Equal(t, DefaultModel, svc.gotModel)
	require.Contains(t, svc.gotPrompt, "JSON-LD")
	require.Equal(t, "files/mock", svc.gotAsset.Name)
}

func TestRunOutputIsSerializable(t *testing.T) {
	svc := &mockService{
		states:    []types.AssetState{types.StateActive},
		replyText: `{"@context":"https://schema.org","@type":"AudioObject"}`,
		usage:     types.Usage{InputTokens: 10, OutputTokens: 5},
	}

	schema, err := New(svc, fastConfig).Run(context.Background(), "talk.wav")
	require.NoError(t, err)

	data, err := json.MarshalIndent(schema, "", "  ")
	require.NoError(t, err)
	require.Contains(t, string(data), `"estimated_cost_usd"`)
	require.Contains(t, string(data), `"timings_seconds"`)
	require.Contains(t, string(data), `"input_tokens": 10`)
}

func TestRunActivationTimeoutSkipsInference(t *testing.T) {
	svc := &mockService{states: []types.AssetState{types.StateProcessing}}

	_, err := New(svc, Config{
		ActivationTimeout: 10 * time.Millisecond,
		PollInterval:      2 * time.Millisecond,
	}).Run(context.Background(), "talk.wav")
	require.ErrorIs(t, err, extractor.ErrActivationTimeout)
	require.Zero(t, svc.genCalls, "no inference call after activation timeout")
}

func TestRunMalformedReply(t *testing.T) {
	svc := &mockService{
		states:    []types.AssetState{types.StateActive},
		replyText: "not json",
	}

	schema, err := New(svc, fastConfig).Run(context.Background(), "talk.wav")
	require.ErrorIs(t, err, extractor.ErrMalformedSchema)
	require.Nil(t, schema)
}

func TestRunUploadFailureAborts(t *testing.T) {
	svc := &mockService{uploadErr: errors.New("quota exceeded")}

	_, err := New(svc, fastConfig).Run(context.Background(), "talk.wav")
	require.ErrorContains(t, err, "upload")
	require.Zero(t, svc.getCalls)
	require.Zero(t, svc.genCalls)
}
