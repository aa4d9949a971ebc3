package extractor

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"audio-schema-go/internal/types"
)

// Generator is the single inference call the retrier wraps.
type Generator interface {
	GenerateContent(ctx context.Context, model, prompt string, asset *types.Asset) (*types.Response, error)
}

const DefaultMaxAttempts = 5

// RetryConfig bounds the retry loop. Zero values take the defaults
// (5 attempts, 1s base delay).
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

type errorClass int

const (
	classTransient errorClass = iota
	classTerminal
)

// classify decides whether a generation error is worth retrying. The service
// surfaces capacity problems as HTTP 503 / "model is overloaded" text; every
// other error is terminal. Matching is by message text until the client
// exposes a structured status code.
func classify(err error) errorClass {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "503") || strings.Contains(msg, "overloaded") {
		return classTransient
	}
	return classTerminal
}

// overloadBackOff waits 2^attempt base units plus up to one unit of jitter.
type overloadBackOff struct {
	base    time.Duration
	attempt int
}

func (b *overloadBackOff) NextBackOff() time.Duration {
	d := time.Duration(1<<b.attempt)*b.base + time.Duration(rand.Float64()*float64(b.base))
	b.attempt++
	return d
}

func (b *overloadBackOff) Reset() { b.attempt = 0 }

// GenerateWithRetry invokes svc once per attempt, retrying only overload
// errors, and reports total elapsed time across all attempts including the
// backoff sleeps. Terminal errors propagate immediately; exhausting every
// attempt yields ErrRetriesExhausted wrapping the last overload error.
func GenerateWithRetry(ctx context.Context, svc Generator, model, prompt string, asset *types.Asset, cfg RetryConfig, log *logrus.Entry) (*types.Response, time.Duration, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	start := time.Now()

	attempt := 0
	var resp *types.Response
	operation := func() error {
		attempt++
		r, err := svc.GenerateContent(ctx, model, prompt, asset)
		if err != nil {
			if classify(err) == classTerminal {
				return backoff.Permanent(err)
			}
			log.WithFields(logrus.Fields{
				"attempt":      attempt,
				"max_attempts": cfg.MaxAttempts,
				"error":        err.Error(),
			}).Warn("model overloaded, backing off")
			return err
		}
		resp = r
		return nil
	}

	bo := backoff.WithMaxRetries(&overloadBackOff{base: cfg.BaseDelay}, uint64(cfg.MaxAttempts-1))
	if err := backoff.Retry(operation, bo); err != nil {
		if classify(err) == classTransient {
			return nil, time.Since(start), fmt.Errorf("%w: %v", ErrRetriesExhausted, err)
		}
		return nil, time.Since(start), err
	}

	return resp, time.Since(start), nil
}
