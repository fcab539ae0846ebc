package auth

import (
	"errors"
	"fmt"
)

const (
	CodeProfileNotFound    = "profile_not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnknownRole        = "unknown_role"
	CodeLoginFailed        = "login_failed"
)

const (
	MsgProfileNotFound    = "User profile not found. Please contact support."
	MsgInvalidCredentials = "Invalid phone number or password."
	MsgLoginFailed        = "Login failed. Please try again later."
)

var ErrUnauthenticated = errors.New("not authenticated")

// LoginError is the user-facing outcome of a failed login.
type LoginError struct {
	Code    string
	Message string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newLoginError(code string) *LoginError {
	switch code {
	case CodeProfileNotFound:
		return &LoginError{Code: code, Message: MsgProfileNotFound}
	case CodeInvalidCredentials:
		return &LoginError{Code: code, Message: MsgInvalidCredentials}
	case CodeUnknownRole:
		return &LoginError{Code: code, Message: MsgProfileNotFound}
	default:
		return &LoginError{Code: CodeLoginFailed, Message: MsgLoginFailed}
	}
}
