package entity

import "errors"

// Domain errors
var (
	// Project errors
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidProject  = errors.New("invalid project data")

	// Workspace errors
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrEmptyIdea           = errors.New("idea is empty")
	ErrAnalysisMissing     = errors.New("analysis is not available yet")
	ErrAnalysisLocked      = errors.New("analysis is read-only once architecture exists")
	ErrArchitectureMissing = errors.New("architecture is not available yet")
	ErrDocsMissing         = errors.New("documentation is not available yet")
	ErrRequestInFlight     = errors.New("another request is in progress")

	// AI gateway errors
	ErrMissingCredential = errors.New("AI API key is not configured")
	ErrEmptyResponse     = errors.New("AI returned an empty response")
	ErrSchemaViolation   = errors.New("AI response does not match the declared schema")
	ErrNoImageProduced   = errors.New("AI produced no image")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
