package resource

import (
	"encoding/json"
	"errors"

	"github.com/goliatone/go-backoffice-cache/client"
)

// DefaultErrorMessage is the last fallback of ErrorMessage.
const DefaultErrorMessage = "Something went wrong"

var (
	// ErrRequestFailed matches every *RequestFailedError.
	ErrRequestFailed = errors.New("request failed")
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse is returned when a response body can not be parsed.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingID is returned when an operation needs an id and got none.
	ErrMissingID = errors.New("missing id")
)

// RequestFailedError is returned when the backend answered with success=false.
type RequestFailedError struct {
	Message string
}

func (e *RequestFailedError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrRequestFailed) hold.
func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// TransportError is returned when no envelope was available, either because the
// call never completed or because the backend answered with an error status.
type TransportError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransport) hold.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func newTransportError(err error) *TransportError {
	te := &TransportError{Message: ErrorMessage(err), Err: err}
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		te.StatusCode = httpErr.StatusCode
	}
	return te
}

// ErrorMessage extracts a user-facing message from err, in priority order:
// the error body's "message", the error body's "error", the error's own
// message, then DefaultErrorMessage.
func ErrorMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && len(httpErr.Body) > 0 {
		var body map[string]any
		if json.Unmarshal(httpErr.Body, &body) == nil {
			if msg, ok := body["message"].(string); ok && msg != "" {
				return msg
			}
			if msg, ok := body["error"].(string); ok && msg != "" {
				return msg
			}
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
