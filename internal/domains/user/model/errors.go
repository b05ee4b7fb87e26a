package model

import "fmt"

// UserError is a typed domain error carrying a stable code for the
// HTTP layer to map onto status codes.
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Error codes.
const (
	CodeUserNotFound       = "USR001"
	CodeEmailTaken         = "USR002"
	CodeDisplayNameTaken   = "USR003"
	CodeInvalidCredentials = "USR004"
	CodeEmailNotVerified   = "USR005"
	CodeInvalidToken       = "USR006"
	CodeTokenExpired       = "USR007"
	CodeTooManyAttempts    = "USR008"
	CodeValidation         = "USR009"
	CodeAlreadyVerified    = "USR010"
	CodeInternal           = "USR500"
)

func ErrUserNotFound() *UserError {
	return &UserError{Code: CodeUserNotFound, Message: "user not found"}
}

func ErrEmailTaken() *UserError {
	return &UserError{Code: CodeEmailTaken, Message: "email is already registered"}
}

func ErrDisplayNameTaken() *UserError {
	return &UserError{Code: CodeDisplayNameTaken, Message: "display name is already taken"}
}

func ErrInvalidCredentials() *UserError {
	return &UserError{Code: CodeInvalidCredentials, Message: "invalid email or password"}
}

func ErrEmailNotVerified() *UserError {
	return &UserError{Code: CodeEmailNotVerified, Message: "email address is not verified"}
}

func ErrInvalidToken() *UserError {
	return &UserError{Code: CodeInvalidToken, Message: "invalid token"}
}

func ErrTokenExpired() *UserError {
	return &UserError{Code: CodeTokenExpired, Message: "token has expired"}
}

func ErrTooManyAttempts() *UserError {
	return &UserError{Code: CodeTooManyAttempts, Message: "too many failed login attempts, try again later"}
}

func ErrAlreadyVerified() *UserError {
	return &UserError{Code: CodeAlreadyVerified, Message: "email is already verified"}
}

func ErrValidation(err error) *UserError {
	return &UserError{Code: CodeValidation, Message: "validation failed", Err: err}
}

func ErrInternal(err error) *UserError {
	return &UserError{Code: CodeInternal, Message: "internal error", Err: err}
}
