package types

// AssetState is the remote service's processing state for an uploaded file.
type AssetState string

const (
	StateProcessing AssetState = "PROCESSING"
	StateActive     AssetState = "ACTIVE"
	StateFailed     AssetState = "FAILED"
)

// Asset is a file uploaded to the inference service, identified by the
// opaque name the service assigned at upload time.
type Asset struct {
	Name     string     `json:"name"`
	URI      string     `json:"uri,omitempty"`
	MIMEType string     `json:"mime_type,omitempty"`
	State    AssetState `json:"state"`
}

// Part is one unit of multi-modal model output.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Candidate is one completion returned by the model.
type Candidate struct {
	Parts []Part `json:"parts"`
}

// Usage holds the token counters the service reports per request.
type Usage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
}

// Response is a model reply: candidate completions plus usage counters.
type Response struct {
	Candidates []Candidate `json:"candidates"`
	Usage      Usage       `json:"usage"`
}

// Schema is the extracted JSON-LD document.
type Schema map[string]any
