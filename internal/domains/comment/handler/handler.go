package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"riffs-backend/internal/domains/comment/model"
	"riffs-backend/internal/domains/comment/service"
	"riffs-backend/internal/shared/middleware"
	"riffs-backend/internal/shared/response"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create handles POST /clips/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "AUTH001", "authentication required")
		return
	}

	clipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid clip id")
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	comment, err := h.service.Create(c.Request.Context(), userID, clipID, req)
	if err != nil {
		status, code, message := mapCommentError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusCreated, "comment posted", comment)
}

// List handles GET /clips/:id/comments.
func (h *CommentHandler) List(c *gin.Context) {
	clipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid clip id")
		return
	}

	comments, err := h.service.ListByClip(c.Request.Context(), clipID)
	if err != nil {
		status, code, message := mapCommentError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", comments)
}

func mapCommentError(err error) (int, string, string) {
	var commentErr *model.CommentError
	if !errors.As(err, &commentErr) {
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}

	switch commentErr.Code {
	case model.CodeValidation:
		return http.StatusBadRequest, commentErr.Code, commentErr.Message
	case model.CodeQuotaExceeded:
		return http.StatusTooManyRequests, commentErr.Code, commentErr.Message
	case model.CodeCommentNotFound, model.CodeClipNotFound:
		return http.StatusNotFound, commentErr.Code, commentErr.Message
	default:
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}
}
