// Package apperr defines the stable machine-readable error codes returned to
// clients. Handlers pair a code with a human message; services signal which
// code applies through sentinel errors.
package apperr

const (
	CodeAuthenticationFailed   = "AUTHENTICATION_FAILED"
	CodeAccountDisabled        = "ACCOUNT_DISABLED"
	CodeInvalidToken           = "INVALID_TOKEN"
	CodeTokenNotFound          = "TOKEN_NOT_FOUND"
	CodePrincipalInactive      = "PRINCIPAL_INACTIVE"
	CodeInvalidCurrentPassword = "INVALID_CURRENT_PASSWORD"

	CodeNotFound       = "NOT_FOUND"
	CodeTaskNotFound   = "TASK_NOT_FOUND"
	CodeReportNotFound = "REPORT_NOT_FOUND"

	CodeForbidden       = "FORBIDDEN"
	CodeValidationError = "VALIDATION_ERROR"

	CodeTaskNotCompleted   = "TASK_NOT_COMPLETED"
	CodeTaskNotConfirmed   = "TASK_NOT_CONFIRMED"
	CodeReportExists       = "REPORT_EXISTS"
	CodeAlreadySubmitted   = "ALREADY_SUBMITTED"
	CodeReportNotSubmitted = "REPORT_NOT_SUBMITTED"
	CodeAlreadyResolved    = "ALREADY_RESOLVED"
	CodeReportNotResolved  = "REPORT_NOT_RESOLVED"

	CodeInternal = "INTERNAL"
)
