package types

import "encoding/json"

// Envelope is the uniform response body of the cart API: success=false travels
// with a non-2xx status and the two are treated identically by clients.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RawEnvelope defers data decoding so callers can unmarshal into the payload
// type they expect.
type RawEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
