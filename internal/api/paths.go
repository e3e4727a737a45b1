package api

import "github.com/diogo/relgpt/internal/models"

// GJSON paths for extracting values from advice responses.
const (
	// PathReply is the reply text in a successful response
	PathReply = models.FieldResponse

	// PathDetail is the error detail some services return with non-2xx statuses
	PathDetail = "detail"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 1 << 20

// maxErrorBodySize caps the body kept for error diagnostics
const maxErrorBodySize = 4096
