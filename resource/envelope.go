package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Pagination is the paging block of list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// DefaultPagination is used when a list response carries no pagination block.
var DefaultPagination = Pagination{Page: 1, Limit: 20, Total: 0, Pages: 0}

// Page is a normalized list result.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// Envelope is the wire wrapper of every backend response. Fields other than
// success, message and pagination are kept raw for the per-resource Unwrap adapters.
type Envelope struct {
	Success    bool
	Message    string
	Pagination *Pagination

	fields map[string]json.RawMessage
}

// DecodeEnvelope parses body. An empty body is treated as {"success": true}.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if len(bytes.TrimSpace(body)) == 0 {
		env.Success = true
		return env, nil
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := Envelope{fields: raw}
	if v, ok := raw["success"]; ok {
		if err := json.Unmarshal(v, &out.Success); err != nil {
			return fmt.Errorf("success: %w", err)
		}
	}
	if v, ok := raw["message"]; ok {
		// a non-string message is ignored rather than failing the whole response
		_ = json.Unmarshal(v, &out.Message)
	}
	if v, ok := present(raw, "pagination"); ok {
		var p Pagination
		if err := json.Unmarshal(v, &p); err != nil {
			return fmt.Errorf("pagination: %w", err)
		}
		out.Pagination = &p
	}

	*e = out
	return nil
}

// Field returns the raw value of name when it is present and not null.
func (e Envelope) Field(name string) (json.RawMessage, bool) {
	return present(e.fields, name)
}

func present(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	v, ok := raw[name]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

// Unwrap extracts the typed payload of an envelope. found is false when the
// envelope carries no payload at all.
type Unwrap[T any] func(env Envelope) (value T, found bool, err error)

// Field returns an Unwrap that decodes the first present field among names.
func Field[T any](names ...string) Unwrap[T] {
	return func(env Envelope) (T, bool, error) {
		var zero T
		for _, name := range names {
			raw, ok := env.Field(name)
			if !ok {
				continue
			}
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return zero, false, fmt.Errorf("%w: decode %q: %v", ErrMalformedResponse, name, err)
			}
			return v, true, nil
		}
		return zero, false, nil
	}
}
