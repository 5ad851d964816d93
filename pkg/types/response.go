// Package types holds the JSON envelope shapes shared by every API response.
package types

// SuccessEnvelope wraps every 2xx payload under a single "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of a pkg/errors value: stable machine code,
// safe message, optional detail payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
