package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend responded %d", e.Status)
}

// IsUnauthorized reports whether err is a 401. Callers normally never need
// this: the client's OnUnauthorized hook already ran.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// IsValidation reports whether err is a 4xx other than 401, i.e. a
// user-correctable problem to surface as-is.
func IsValidation(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500 && ae.Status != http.StatusUnauthorized
}

// IsServer reports whether err is a 5xx. These are surfaced generically and
// retried only when the user re-initiates the action.
func IsServer(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 500
}

// decodeError builds an *APIError from a non-2xx response, pulling the
// message out of the backend's error envelope when one is present.
func decodeError(resp *http.Response) error {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(body, &envelope)
	msg := envelope.Message
	if msg == "" {
		msg = envelope.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
