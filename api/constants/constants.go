package constants

// Common error messages
const (
	ErrInvalidSession     = "invalid or expired report session"
	ErrMissingSessionID   = "session_id required"
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrMissingFile        = "no file in upload"
	ErrUnsupportedFile    = "unsupported file type (expected .xlsx, .xls or .csv)"
	ErrMissingColumns     = "uploaded file is missing mandatory columns"
	ErrEmptyFile          = "uploaded file has no data rows"
	ErrUnknownAggFunc     = "unknown aggregation function"
	ErrNoRowDimension     = "at least one row dimension is required"
	ErrNoValueColumn      = "at least one numeric value column is required"
	ErrExportFailed       = "export generation failed"
	ErrAuditUnavailable   = "audit store unavailable"
)

// Upload limits
const (
	MaxUploadBytes = 32 << 20
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypeZIP  = "application/zip"
)
