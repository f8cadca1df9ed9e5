package types

// SuccessEnvelope wraps every successful API payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape; Details is only populated for codes
// that allow client-visible detail.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
