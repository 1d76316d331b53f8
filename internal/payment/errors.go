package payment

import (
	"net/http"

	"github.com/arjyapattanayak/coursepay/internal/common"
)

// Error codes carried by AppError values produced in this package.
const (
	CodeMissingFields = "MISSING_FIELDS"
	CodeInvalidPlan   = "INVALID_PLAN"
	CodeUnknownCourse = "UNKNOWN_COURSE"
	CodeConfiguration = "CONFIG_ERROR"
	CodeIntentFailed  = "INTENT_FAILED"
)

// missingFields flags a request with absent or empty required fields.
func missingFields(message string) *common.AppError {
	return common.NewAppError(CodeMissingFields, message, http.StatusBadRequest, nil)
}

// invalidPlan flags a plan identifier outside the allowed set.
func invalidPlan() *common.AppError {
	return common.NewAppError(CodeInvalidPlan, "Invalid planId.", http.StatusBadRequest, nil)
}

// unknownCourse flags a course id the trusted catalog does not know.
func unknownCourse(err error) *common.AppError {
	return common.NewAppError(CodeUnknownCourse, "course not found", http.StatusBadRequest, err)
}

// configuration flags a missing server-side secret or plan id. Operator
// fatal, not user actionable.
func configuration(err error) *common.AppError {
	return common.NewAppError(CodeConfiguration, "Server configuration error", http.StatusInternalServerError, err)
}

// intentFailed wraps a gateway rejection. The underlying gateway message is
// kept for logs and never surfaces to the client.
func intentFailed(message string, err error) *common.AppError {
	return common.NewAppError(CodeIntentFailed, message, http.StatusInternalServerError, err)
}
