package model

import "fmt"

type CommentError struct {
	Code    string
	Message string
	Err     error
}

func (e *CommentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CommentError) Unwrap() error {
	return e.Err
}

const (
	CodeValidation      = "CMT001"
	CodeCommentNotFound = "CMT002"
	CodeQuotaExceeded   = "CMT003"
	CodeClipNotFound    = "CMT004"
	CodeInternal        = "CMT500"
)

func ErrContentTooShort() *CommentError {
	return &CommentError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("comment must be at least %d characters", MinContentLength),
	}
}

func ErrContentTooLong() *CommentError {
	return &CommentError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("comment must be at most %d characters", MaxContentLength),
	}
}

func ErrCommentNotFound() *CommentError {
	return &CommentError{Code: CodeCommentNotFound, Message: "comment not found"}
}

func ErrQuotaExceeded() *CommentError {
	return &CommentError{
		Code:    CodeQuotaExceeded,
		Message: fmt.Sprintf("comment limit of %d per clip reached", MaxCommentsPerClip),
	}
}

func ErrClipNotFound() *CommentError {
	return &CommentError{Code: CodeClipNotFound, Message: "clip not found"}
}

func ErrValidation(err error) *CommentError {
	return &CommentError{Code: CodeValidation, Message: "validation failed", Err: err}
}

func ErrInternal(err error) *CommentError {
	return &CommentError{Code: CodeInternal, Message: "internal error", Err: err}
}
