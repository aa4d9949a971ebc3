package extractor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"audio-schema-go/internal/types"
)

// scriptedFiles walks through states one poll at a time, repeating the last
// state forever.
type scriptedFiles struct {
	states []types.AssetState
	err    error
	calls  int
}

func (s *scriptedFiles) GetFile(ctx context.Context, name string) (*types.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls
	s.calls++
	if i >= len(s.states) {
		i = len(s.states) - 1
	}
	return &types.Asset{Name: name, URI: "files/uri", State: s.states[i]}, nil
}

var fastWait = WaitConfig{Timeout: time.Second, PollInterval: time.Millisecond}

func TestWaitForActive(t *testing.T) {
	svc := &scriptedFiles{states: []types.AssetState{
		types.StateProcessing,
		types.StateProcessing,
		types.StateActive,
	}}

	asset, elapsed, err := WaitForActive(context.Background(), svc, "files/abc", fastWait, testLog())
	require.NoError(t, err)
	require.Equal(t, types.StateActive, asset.State)
	require.Equal(t, "files/abc", asset.Name)
	require.Equal(t, 3, svc.calls)
	require.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}

func TestWaitForActiveTimeout(t *testing.T) {
	svc := &scriptedFiles{states: []types.AssetState{types.StateProcessing}}

	_, _, err := WaitForActive(context.Background(), svc, "files/abc", WaitConfig{
		Timeout:      10 * time.Millisecond,
		PollInterval: 2 * time.Millisecond,
	}, testLog())
	require.ErrorIs(t, err, ErrActivationTimeout)
}

func TestWaitForActiveFailedStateIsTerminal(t *testing.T) {
	svc := &scriptedFiles{states: []types.AssetState{types.StateFailed}}

	_, _, err := WaitForActive(context.Background(), svc, "files/abc", fastWait, testLog())
	require.ErrorIs(t, err, ErrAssetFailed)
	require.Equal(t, 1, svc.calls, "a failed file must not be polled again")
}

func TestWaitForActivePollErrorPropagates(t *testing.T) {
	svc := &scriptedFiles{err: errors.New("network down")}

	_, _, err := WaitForActive(context.Background(), svc, "files/abc", fastWait, testLog())
	require.ErrorContains(t, err, "network down")
}

func TestWaitForActiveHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &scriptedFiles{states: []types.AssetState{types.StateProcessing}}

	_, _, err := WaitForActive(ctx, svc, "files/abc", fastWait, testLog())
	require.ErrorIs(t, err, context.Canceled)
}
