package constants

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrUnknownEmail   = "No portal account is registered for this email"
	ErrEmailRequired  = "Email is required"
	ErrSessionExpired = "Your session has expired. Please login again"
	ErrUnauthorized   = "You are not authorized to perform this action"
)

// ============================================================================
// CASE ERRORS
// ============================================================================

const (
	ErrCaseNotFound      = "Case not found or you don't have access to it"
	ErrInvalidPagination = "Invalid page or limit parameter"
	ErrClientIDRequired  = "clientId is required for administrator requests"
)

// ============================================================================
// IMPORT / EXPORT ERRORS
// ============================================================================

const (
	ErrFileRequired        = "A file upload in the 'file' field is required"
	ErrFileTooLarge        = "Uploaded file is too large"
	ErrUnsupportedFileType = "Unsupported file type. Please upload a CSV, XLSX or XLS file"
	ErrEmptyFile           = "The uploaded file has no data rows"
	ErrImportFailed        = "Import failed. Please check the file and try again"
	ErrExportFailed        = "Export failed"
	ErrUnsupportedFormat   = "Unsupported export format. Use csv or xlsx"
)

// ============================================================================
// MESSAGE ERRORS
// ============================================================================

const (
	ErrEmptyMessage = "Message body cannot be empty"
	ErrSendFailed   = "Failed to send message"
)
