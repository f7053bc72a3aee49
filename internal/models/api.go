package models

// ErrorResponse is the body of every non-2xx API response. Field and Reason
// are set for validation failures only.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}
