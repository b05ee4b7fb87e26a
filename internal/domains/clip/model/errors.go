package model

import "fmt"

type ClipError struct {
	Code    string
	Message string
	Err     error
}

func (e *ClipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClipError) Unwrap() error {
	return e.Err
}

const (
	CodeValidation      = "CLP001"
	CodeClipNotFound    = "CLP002"
	CodeNotOwner        = "CLP003"
	CodeFileTooLarge    = "CLP004"
	CodeUnsupportedType = "CLP005"
	CodeInternal        = "CLP500"
)

func ErrClipNotFound() *ClipError {
	return &ClipError{Code: CodeClipNotFound, Message: "clip not found"}
}

func ErrNotOwner() *ClipError {
	return &ClipError{Code: CodeNotOwner, Message: "only the uploader can delete a clip"}
}

func ErrFileTooLarge(limit int64) *ClipError {
	return &ClipError{
		Code:    CodeFileTooLarge,
		Message: fmt.Sprintf("audio file exceeds the %d byte limit", limit),
	}
}

func ErrUnsupportedType(contentType string) *ClipError {
	return &ClipError{
		Code:    CodeUnsupportedType,
		Message: fmt.Sprintf("unsupported audio type %q", contentType),
	}
}

func ErrValidation(err error) *ClipError {
	return &ClipError{Code: CodeValidation, Message: "validation failed", Err: err}
}

func ErrInternal(err error) *ClipError {
	return &ClipError{Code: CodeInternal, Message: "internal error", Err: err}
}
