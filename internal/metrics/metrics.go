package metrics

import (
	"math"
	"time"

	"audio-schema-go/internal/types"
)

// Gemini 2.5 Flash audio pricing, USD per million tokens.
const (
	inputCostPerMTok  = 0.30
	outputCostPerMTok = 2.50
)

// Stages holds the raw wall-clock duration of each pipeline stage.
type Stages struct {
	Upload         time.Duration
	FileProcessing time.Duration
	Inference      time.Duration
	TextExtraction time.Duration
	JSONParsing    time.Duration
	TotalExecution time.Duration
}

// Timings is the per-stage elapsed report in seconds, rounded to 2 decimals.
type Timings struct {
	Upload         float64 `json:"upload"`
	FileProcessing float64 `json:"file_processing"`
	Inference      float64 `json:"inference"`
	TextExtraction float64 `json:"text_extraction"`
	JSONParsing    float64 `json:"json_parsing"`
	TotalExecution float64 `json:"total_execution"`
}

// Report is the telemetry block attached under the schema's "metrics" key.
type Report struct {
	InputTokens      int32   `json:"input_tokens"`
	OutputTokens     int32   `json:"output_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Timings          Timings `json:"timings_seconds"`
}

// EstimateCost prices a request in USD. Input and output tokens bill at
// different per-million rates; the result is rounded to 6 decimal places.
func EstimateCost(inputTokens, outputTokens int32) float64 {
	cost := (float64(inputTokens)*inputCostPerMTok + float64(outputTokens)*outputCostPerMTok) / 1_000_000
	return round(cost, 6)
}

// Compute folds usage counters and raw stage durations into one report.
func Compute(usage types.Usage, s Stages) Report {
	return Report{
		InputTokens:      usage.InputTokens,
		OutputTokens:     usage.OutputTokens,
		EstimatedCostUSD: EstimateCost(usage.InputTokens, usage.OutputTokens),
		Timings: Timings{
			Upload:         seconds(s.Upload),
			FileProcessing: seconds(s.FileProcessing),
			Inference:      seconds(s.Inference),
			TextExtraction: seconds(s.TextExtraction),
			JSONParsing:    seconds(s.JSONParsing),
			TotalExecution: seconds(s.TotalExecution),
		},
	}
}

func seconds(d time.Duration) float64 {
	return round(d.Seconds(), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
