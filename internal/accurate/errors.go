package accurate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError is a failed call to the Accurate API. Status is 0 for
// transport failures. Body holds the upstream error payload when there was one.
type UpstreamError struct {
	Op       string
	Status   int
	Body     json.RawMessage
	Rejected bool // upstream answered with "s": false
	Err      error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Rejected:
		return fmt.Sprintf("accurate %s: request rejected: %s", e.Op, string(e.Body))
	case e.Status != 0:
		return fmt.Sprintf("accurate %s: HTTP %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("accurate %s: %v", e.Op, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed: transport errors,
// 5xx, 408 and 429.
func (e *UpstreamError) Retryable() bool {
	if e.Rejected {
		return false
	}
	switch {
	case e.Status == 0:
		return true
	case e.Status >= http.StatusInternalServerError:
		return true
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return true
	}
	return false
}

// FetchError is returned once every detail attempt for ID has failed.
type FetchError struct {
	ID       int64
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch detail %d: giving up after %d attempt(s): %v", e.ID, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func isRetryable(err error) bool {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Retryable()
	}
	return false
}

// errorBody keeps valid JSON as-is and quotes anything else.
func errorBody(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}
