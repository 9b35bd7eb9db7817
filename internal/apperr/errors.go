// Package apperr defines the application error taxonomy. Every failure that
// reaches a client carries an HTTP status and a stable machine-readable code
// so the frontend can branch on the code instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) WithDetails(details ...string) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// As unwraps err into *Error, or wraps unexpected failures as INTERNAL_ERROR.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal()
}

func EmailTaken() *Error {
	return New(http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
}

func InvalidCredentials() *Error {
	return New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
}

func AccountInactive() *Error {
	return New(http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is not active")
}

func TokenInvalid() *Error {
	return New(http.StatusUnauthorized, "TOKEN_INVALID", "Token is malformed or has an invalid signature")
}

func TokenExpired() *Error {
	return New(http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
}

func TokenRevoked() *Error {
	return New(http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
}

func RefreshNotFound() *Error {
	return New(http.StatusUnauthorized, "REFRESH_NOT_FOUND", "Refresh token is no longer valid")
}

func UserNotFound() *Error {
	return New(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
}

// SocialAuthFailed carries a provider-specific subcode such as
// GOOGLE_AUTH_FAILED or KAKAO_AUTH_FAILED.
func SocialAuthFailed(provider string) *Error {
	return New(http.StatusUnauthorized, provider+"_AUTH_FAILED", "Invalid "+provider+" token")
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "FORBIDDEN", message)
}

func UpstreamUnavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", message)
}

func InvalidPayload(message string) *Error {
	return New(http.StatusBadRequest, "INVALID_PAYLOAD", message)
}

func InvalidID(label string) *Error {
	return New(http.StatusBadRequest, "INVALID_ID", "Invalid "+label+" id")
}

func Internal() *Error {
	return New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func StudyNotFound() *Error {
	return New(http.StatusNotFound, "STUDY_NOT_FOUND", "Study not found")
}

func AlreadyJoined() *Error {
	return New(http.StatusConflict, "ALREADY_JOINED", "Already joined this study")
}

func StudyFull() *Error {
	return New(http.StatusConflict, "STUDY_FULL", "Study is full")
}

func NotAMember() *Error {
	return New(http.StatusForbidden, "NOT_A_MEMBER", "You are not a member of this study")
}

func SessionNotFound() *Error {
	return New(http.StatusNotFound, "SESSION_NOT_FOUND", "Attendance session not found")
}

func InvalidDate() *Error {
	return New(http.StatusBadRequest, "INVALID_DATE", "date must be a valid RFC 3339 string")
}

func InvalidRole() *Error {
	return New(http.StatusBadRequest, "INVALID_ROLE", "role must be USER or ADMIN")
}

func InvalidStatus() *Error {
	return New(http.StatusBadRequest, "INVALID_STATUS", "status must be PRESENT, LATE, or ABSENT")
}
