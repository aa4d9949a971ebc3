// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"audio-schema-go/internal/extractor"
	"audio-schema-go/internal/logger"
	"audio-schema-go/internal/metrics"
	"audio-schema-go/internal/types"
)

// DefaultModel handles audio input natively.
const DefaultModel = "gemini-2.5-flash"

const prompt = `Return ONLY valid JSON-LD (no explanation).

{
  "@context": "https://schema.org",
  "@type": "AudioObject"
}

Extract:
- Person (speakers)
- Product (mentioned brands/tools)
- Event (talks, meetings, announcements)`

// Service is everything the pipeline needs from the inference backend.
type Service interface {
	UploadFile(ctx context.Context, path string) (*types.Asset, error)
	extractor.FileGetter
	extractor.Generator
}

// Config tunes one extraction run. Zero values take the component defaults
// (180s activation window, 2s poll, 5 inference attempts).
type Config struct {
	Model             string
	ActivationTimeout time.Duration
	PollInterval      time.Duration
	MaxAttempts       int
	RetryBaseDelay    time.Duration
}

type Pipeline struct {
	svc Service
	cfg Config
	log *logger.Logger
}

func New(svc Service, cfg Config) *Pipeline {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Pipeline{
		svc: svc,
		cfg: cfg,
		log: logger.New(),
	}
}

// Run executes one extraction: upload, wait for activation, prompted
// inference, text collection, JSON parse, metrics. Stages run strictly in
// that order, each gated on the previous one; any stage error aborts the run
// and no partial schema is returned. The uploaded remote file is left for
// the service to expire.
func (p *Pipeline) Run(ctx context.Context, audioPath string) (types.Schema, error) {
	log := p.log.WithRun(audioPath)
	totalStart := time.Now()

	log.Info("uploading audio")
	uploadStart := time.Now()
	asset, err := p.svc.UploadFile(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	uploadTime := time.Since(uploadStart)
	log.WithFields(logrus.Fields{
		"file_name":  asset.Name,
		"duration_s": uploadTime.Seconds(),
	}).Info("upload completed")

	active, processingTime, err := extractor.WaitForActive(ctx, p.svc, asset.Name, extractor.WaitConfig{
		Timeout:      p.cfg.ActivationTimeout,
		PollInterval: p.cfg.PollInterval,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("file activation: %w", err)
	}

	log.WithField("model", p.cfg.Model).Info("calling model with audio")
	resp, inferenceTime, err := extractor.GenerateWithRetry(ctx, p.svc, p.cfg.Model, prompt, active, extractor.RetryConfig{
		MaxAttempts: p.cfg.MaxAttempts,
		BaseDelay:   p.cfg.RetryBaseDelay,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	log.WithField("duration_s", inferenceTime.Seconds()).Info("inference completed")

	text, textTime := extractor.CollectText(resp)
	log.WithField("preview", preview(text)).Debug("response text collected")

	schema, parseTime, err := extractor.ParseSchema(text)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	report := metrics.Compute(resp.Usage, metrics.Stages{
		Upload:         uploadTime,
		FileProcessing: processingTime,
		Inference:      inferenceTime,
		TextExtraction: textTime,
		JSONParsing:    parseTime,
		TotalExecution: time.Since(totalStart),
	})
	schema["metrics"] = report

	log.WithFields(logrus.Fields{
		"input_tokens":  report.InputTokens,
		"output_tokens": report.OutputTokens,
		"cost_usd":      report.EstimatedCostUSD,
		"total_s":       report.Timings.TotalExecution,
	}).Info("extraction complete")
	return schema, nil
}

func preview(text string) string {
	if len(text) > 200 {
		return text[:200] + "..."
	}
	return text
}
