package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"audio-schema-go/internal/types"
)

// CollectText concatenates the text of every content part of every candidate
// in encountered order. Parts without text are skipped; an empty result is
// not an error here.
func CollectText(resp *types.Response) (string, time.Duration) {
	start := time.Now()

	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Parts {
			b.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(b.String()), time.Since(start)
}

// ParseSchema parses a model reply into a schema mapping. Replies wrapped in
// a ```json fenced block are unwrapped first; anything that still fails to
// decode is ErrMalformedSchema.
func ParseSchema(text string) (types.Schema, time.Duration, error) {
	start := time.Now()

	var schema types.Schema
	if err := json.Unmarshal([]byte(stripFences(text)), &schema); err != nil {
		return nil, time.Since(start), fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}

	return schema, time.Since(start), nil
}

const (
	jsonFence = "```json"
	bareFence = "```"
)

type fenceState int

const (
	noFence fenceState = iota
	insideFence
	fenceClosed
)

// stripFences isolates the payload of the first ```json fenced block when one
// exists; otherwise the whole text is kept. Stray fence markers left over
// (bare fences, or a json fence that was never closed) are removed.
func stripFences(text string) string {
	state := noFence
	body := text

	if i := strings.Index(body, jsonFence); i >= 0 {
		body = body[i+len(jsonFence):]
		state = insideFence
	}
	if state == insideFence {
		if j := strings.Index(body, bareFence); j >= 0 {
			body = body[:j]
			state = fenceClosed
		}
	}
	if state != fenceClosed {
		body = strings.ReplaceAll(body, bareFence, "")
	}

	return strings.TrimSpace(body)
}
