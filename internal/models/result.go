package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// StatusOK is the only envelope status that means success.
const StatusOK = 1

// Status is the envelope discriminator. The service sends it as a JSON number,
// older handlers as a string; both decode. Absence decodes to zero.
type Status int

// UnmarshalJSON accepts integers and integer strings. Anything else, fractions and
// exponents included, is a failure status.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var text string
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")),
		bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = 0
		return nil
	case data[0] == '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		text = num.String()
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		*s = 0
		return nil
	}
	*s = Status(n)
	return nil
}

// Result is the uniform response envelope of the wishlist service.
//
// Message is server-authored and shown to the user verbatim.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	ID      string `json:"-"`
}

// OK reports whether the envelope signals success.
func (r Result) OK() bool { return r.Status == StatusOK }

// UnmarshalJSON decodes the envelope, accepting an id of any scalar type.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status  Status          `json:"status"`
		Message string          `json:"message"`
		ID      json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Status = raw.Status
	r.Message = raw.Message
	r.ID = scalarString(raw.ID)
	return nil
}

// MarshalJSON encodes the envelope, omitting an empty id.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		ID      string `json:"id,omitempty"`
	}{int(r.Status), r.Message, r.ID}
	return json.Marshal(out)
}

func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
