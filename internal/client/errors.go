package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError describes a failed catalog request. StatusCode is zero when no response arrived.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type validationError struct {
	Detail []validationErrorDetail `json:"detail"`
}

type validationErrorDetail struct {
	Location []any  `json:"loc"`
	Message  string `json:"msg"`
	Type     string `json:"type"`
}

// newStatusError builds the error for a non-2xx response, folding in validation details when present
func newStatusError(status int, body string) *APIError {
	message := fmt.Sprintf("request failed with status %d", status)

	var verr validationError
	if err := json.Unmarshal([]byte(body), &verr); err != nil {
		if body != "" {
			message += ": " + body
		}
		return &APIError{StatusCode: status, Message: message}
	}

	if len(verr.Detail) > 0 {
		lines := make([]string, 0, len(verr.Detail))
		for _, d := range verr.Detail {
			lines = append(lines, d.Message)
		}
		message += ": " + strings.Join(lines, ", ")
	}

	return &APIError{StatusCode: status, Message: message}
}
