package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"audio-schema-go/internal/gemini"
	"audio-schema-go/internal/logger"
	"audio-schema-go/internal/pipeline"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "audio-schema-go").Info("starting")

	audioPath := ""
	if len(os.Args) > 1 {
		audioPath = os.Args[1]
	} else {
		fmt.Print("Audio path: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		audioPath = strings.TrimSpace(line)
	}
	if audioPath == "" {
		audioPath = "audio.wav"
	}

	if _, err := os.Stat(audioPath); err != nil {
		log.WithField("audio_path", audioPath).Fatal("audio file not found")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY missing")
	}

	ctx := context.Background()
	svc, err := gemini.New(ctx, apiKey)
	if err != nil {
		log.WithError(err).Fatal("failed to create gemini client")
	}

	p := pipeline.New(svc, pipeline.Config{
		Model: envOr("GEMINI_MODEL", pipeline.DefaultModel),
	})

	schema, err := p.Run(ctx, audioPath)
	if err != nil {
		log.WithError(err).Error("extraction failed")
		fmt.Fprintln(os.Stderr, "Try shorter audio (<=60s) or retry after a few minutes")
		os.Exit(1)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outputFile := fmt.Sprintf("schema_audio_%s_%s.jsonld", stem, time.Now().Format("20060102_150405"))

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("failed to encode schema")
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		log.WithError(err).Fatal("failed to write output")
	}

	log.WithField("output_file", outputFile).Info("schema saved")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
