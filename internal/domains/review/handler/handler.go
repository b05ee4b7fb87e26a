package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"riffs-backend/internal/domains/review/model"
	"riffs-backend/internal/domains/review/service"
	"riffs-backend/internal/shared/middleware"
	"riffs-backend/internal/shared/response"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Submit handles POST /clips/:id/reviews. The same endpoint serves
// first submissions and resubmissions.
func (h *ReviewHandler) Submit(c *gin.Context) {
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

	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	review, err := h.service.Submit(c.Request.Context(), userID, clipID, req)
	if err != nil {
		status, code, message := mapReviewError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "review saved", review)
}

// List handles GET /clips/:id/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	clipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid clip id")
		return
	}

	result, err := h.service.ListByClip(c.Request.Context(), clipID)
	if err != nil {
		status, code, message := mapReviewError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", result)
}

// Mine handles GET /clips/:id/reviews/me.
func (h *ReviewHandler) Mine(c *gin.Context) {
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

	review, err := h.service.GetMine(c.Request.Context(), userID, clipID)
	if err != nil {
		status, code, message := mapReviewError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", review)
}

func mapReviewError(err error) (int, string, string) {
	var reviewErr *model.ReviewError
	if !errors.As(err, &reviewErr) {
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}

	switch reviewErr.Code {
	case model.CodeReviewNotFound, model.CodeClipNotFound:
		return http.StatusNotFound, reviewErr.Code, reviewErr.Message
	case model.CodeGateNotSatisfied:
		return http.StatusForbidden, reviewErr.Code, reviewErr.Message
	case model.CodeValidation:
		message := reviewErr.Message
		if reviewErr.Err != nil {
			message = reviewErr.Err.Error()
		}
		return http.StatusBadRequest, reviewErr.Code, message
	default:
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}
}
