package model

import "fmt"

type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

const (
	CodeReviewNotFound   = "REV001"
	CodeGateNotSatisfied = "REV002"
	CodeValidation       = "REV003"
	CodeClipNotFound     = "REV004"
	CodeInternal         = "REV500"
)

func ErrReviewNotFound() *ReviewError {
	return &ReviewError{Code: CodeReviewNotFound, Message: "review not found"}
}

// ErrGateNotSatisfied is returned when a user tries to rate a clip
// they have not commented on yet.
func ErrGateNotSatisfied() *ReviewError {
	return &ReviewError{
		Code:    CodeGateNotSatisfied,
		Message: "comment on this clip before rating it",
	}
}

func ErrClipNotFound() *ReviewError {
	return &ReviewError{Code: CodeClipNotFound, Message: "clip not found"}
}

func ErrValidation(err error) *ReviewError {
	return &ReviewError{Code: CodeValidation, Message: "validation failed", Err: err}
}

func ErrInternal(err error) *ReviewError {
	return &ReviewError{Code: CodeInternal, Message: "internal error", Err: err}
}
