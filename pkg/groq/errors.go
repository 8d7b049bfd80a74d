package groq

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrClass buckets a generation failure for the caller's retry policy.
type ErrClass int

const (
	// ClassOther is any failure with no specific handling: terminal.
	ClassOther ErrClass = iota
	// ClassDecommissioned means the requested model was retired; the caller
	// should advance to the next model in its preference list.
	ClassDecommissioned
	// ClassRateLimited means the API asked us to slow down; retry after
	// backoff.
	ClassRateLimited
)

// APIError is a non-200 response from the Groq API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("groq: %s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("groq: %s (%d)", e.Message, e.StatusCode)
}

var decommissionedPatterns = []string{
	"decommissioned",
	"no longer supported",
	"model_decommissioned",
}

var rateLimitedPatterns = []string{
	"rate",
	"limit",
	"too many",
}

// Classify buckets a generation error by its wire code, HTTP status, and
// message text. Message matching mirrors the strings the API is known to
// return for retired models and quota exhaustion.
func Classify(err error) ErrClass {
	if err == nil {
		return ClassOther
	}

	msg := strings.ToLower(err.Error())

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == "model_decommissioned" {
			return ClassDecommissioned
		}
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return ClassRateLimited
		}
	}

	for _, p := range decommissionedPatterns {
		if strings.Contains(msg, p) {
			return ClassDecommissioned
		}
	}
	for _, p := range rateLimitedPatterns {
		if strings.Contains(msg, p) {
			return ClassRateLimited
		}
	}

	return ClassOther
}
