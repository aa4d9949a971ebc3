package extractor

import "errors"

// Every failure the extraction can surface maps onto one of these sentinels
// so callers can branch with errors.Is instead of matching message text.
var (
	// ErrActivationTimeout means the uploaded file never reached ACTIVE
	// within the allotted window.
	ErrActivationTimeout = errors.New("file processing timed out")

	// ErrAssetFailed means the service reported a terminal non-ACTIVE state
	// for the uploaded file.
	ErrAssetFailed = errors.New("file processing failed")

	// ErrRetriesExhausted means every inference attempt hit a transient
	// overload error.
	ErrRetriesExhausted = errors.New("max retries exceeded")

	// ErrMalformedSchema means the model reply was not valid JSON after
	// fence stripping.
	ErrMalformedSchema = errors.New("model output is not valid JSON")
)
