// Package types holds the wire envelopes shared by the JSON endpoints.
package types

// SuccessEnvelope wraps every successful API response under a "data" key.
// The export endpoints are the exception: they serve their own keyed
// documents for compatibility with existing consumers.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details carries field-level
// validation problems when the error code permits exposing them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError the same way SuccessEnvelope wraps data.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
