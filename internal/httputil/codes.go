package httputil

// Machine-readable error codes returned alongside error messages.
// The message stays generic; clients branch on the code.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
	CodeUserIDsRequired    = "USER_IDS_REQUIRED"
	CodeServerMisconfig    = "SERVER_MISCONFIGURED"
	CodeInternalError      = "INTERNAL_ERROR"
)
