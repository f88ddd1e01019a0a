// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Users
	KeyUserNotFound = "user.not_found"

	// RFPs
	KeyRFPCreated       = "rfp.created"
	KeyRFPUpdated       = "rfp.updated"
	KeyRFPDeleted       = "rfp.deleted"
	KeyRFPNotFound      = "rfp.not_found"
	KeyRFPStatusChanged = "rfp.status_changed"
	KeyRFPClosed        = "rfp.closed"
	KeyRFPDocumentSaved = "rfp.document_saved"

	// Responses
	KeyResponseSubmitted = "response.submitted"
	KeyResponseNotFound  = "response.not_found"
	KeyResponseApproved  = "response.approved"
	KeyResponseRejected  = "response.rejected"
	KeyResponseDuplicate = "response.duplicate"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
