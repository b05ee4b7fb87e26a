package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Validate checks presence and the upper bound. The trimmed minimum
// length is a business rule enforced by the service.
func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, MaxContentLength)),
	)
}

type CommentResponse struct {
	Comment
	AuthorName   string  `json:"author_name"`
	AuthorAvatar *string `json:"author_avatar,omitempty"`
}
