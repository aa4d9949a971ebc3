package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"audio-schema-go/internal/types"
)

// FileGetter looks up the current descriptor of an uploaded file.
type FileGetter interface {
	GetFile(ctx context.Context, name string) (*types.Asset, error)
}

const (
	DefaultActivationTimeout = 180 * time.Second
	DefaultPollInterval      = 2 * time.Second
)

// WaitConfig bounds the activation poll loop. Zero values take the defaults.
type WaitConfig struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// WaitForActive polls the uploaded file at a fixed interval until the service
// reports it ACTIVE, and returns the final descriptor plus elapsed time.
// Activation time is bounded and predictable, so the interval does not back
// off. A FAILED state is terminal and fails immediately.
func WaitForActive(ctx context.Context, svc FileGetter, name string, cfg WaitConfig, log *logrus.Entry) (*types.Asset, time.Duration, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultActivationTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	log.WithField("file_name", name).Info("waiting for file processing")
	start := time.Now()

	for time.Since(start) < cfg.Timeout {
		asset, err := svc.GetFile(ctx, name)
		if err != nil {
			return nil, time.Since(start), fmt.Errorf("get file %s: %w", name, err)
		}

		switch asset.State {
		case types.StateActive:
			elapsed := time.Since(start)
			log.WithFields(logrus.Fields{
				"file_name": name,
				"elapsed_s": elapsed.Seconds(),
			}).Info("file ready")
			return asset, elapsed, nil
		case types.StateFailed:
			return nil, time.Since(start), fmt.Errorf("%w: file %s entered state %s", ErrAssetFailed, name, asset.State)
		}

		log.WithField("state", string(asset.State)).Debug("file still processing")

		select {
		case <-ctx.Done():
			return nil, time.Since(start), ctx.Err()
		case <-time.After(cfg.PollInterval):
		}
	}

	return nil, time.Since(start), fmt.Errorf("%w after %s", ErrActivationTimeout, cfg.Timeout)
}
