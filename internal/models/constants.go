package models

// Endpoints for the advice service
const (
	// DefaultEndpoint is the local advice service path
	DefaultEndpoint = "http://localhost:8000/advice/"
)

// Fixed reply texts used when the advice service cannot supply one
const (
	// ApologyText is returned when the service answers without a reply field
	ApologyText = "I apologize, but I'm unable to provide advice at the moment."

	// FallbackText is returned when the request fails for any reason
	FallbackText = "I apologize, but I'm having trouble connecting to the advice service at the moment."
)

// Wire field names for the advice request and response bodies
const (
	FieldMessage  = "message"
	FieldResponse = "response"
)

// AdviceRequest is the JSON body sent to the advice endpoint
type AdviceRequest struct {
	Message string `json:"message"`
}

// DefaultHeaders returns the default headers for advice requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":    "application/json",
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      "relgpt-cli",
	}
}
