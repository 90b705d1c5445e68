package handlers

// ErrorResponse is the generic error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the generic success payload
type SuccessResponse struct {
	Message string `json:"message"`
}
