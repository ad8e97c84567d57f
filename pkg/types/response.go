package types

// SuccessEnvelope wraps every successful API payload so storefront clients
// can always read `data`.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a coded error. Details are omitted unless the
// code allows exposing them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under `error`, mirroring SuccessEnvelope.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
