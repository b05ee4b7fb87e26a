package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"riffs-backend/internal/domains/clip/model"
	"riffs-backend/internal/domains/clip/service"
	"riffs-backend/internal/shared/middleware"
	"riffs-backend/internal/shared/response"
)

type ClipHandler struct {
	service service.ClipService
}

func NewClipHandler(service service.ClipService) *ClipHandler {
	return &ClipHandler{service: service}
}

// Upload handles POST /clips as multipart form data: an "audio" file
// part plus title, description and duration fields.
func (h *ClipHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "AUTH001", "authentication required")
		return
	}

	var req model.UploadClipRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid form fields")
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "missing audio file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "unreadable audio file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	clip, err := h.service.Upload(c.Request.Context(), userID, req, file, fileHeader.Size, contentType)
	if err != nil {
		status, code, message := mapClipError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusCreated, "clip uploaded", clip)
}

// Feed handles GET /clips?page=1&sort=newest|oldest|popular.
func (h *ClipHandler) Feed(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	sortBy, ok := model.ParseFeedSort(c.Query("sort"))
	if !ok {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "sort must be newest, oldest or popular")
		return
	}

	items, total, err := h.service.Feed(c.Request.Context(), model.FeedQuery{Page: page, Sort: sortBy})
	if err != nil {
		status, code, message := mapClipError(err)
		response.Error(c, status, code, message)
		return
	}

	meta := response.NewMeta(page, model.FeedPageSize, total)
	response.SuccessWithMeta(c, http.StatusOK, "", items, meta)
}

// Mine handles GET /clips/me.
func (h *ClipHandler) Mine(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "AUTH001", "authentication required")
		return
	}

	items, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		status, code, message := mapClipError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", items)
}

// Get handles GET /clips/:id. The route runs behind OptionalAuth, so
// signed-in callers additionally get their viewer state.
func (h *ClipHandler) Get(c *gin.Context) {
	clipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid clip id")
		return
	}

	var viewerID *uuid.UUID
	if userID, ok := middleware.UserIDFromContext(c); ok {
		viewerID = &userID
	}

	item, err := h.service.Get(c.Request.Context(), clipID, viewerID)
	if err != nil {
		status, code, message := mapClipError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", item)
}

// Delete handles DELETE /clips/:id.
func (h *ClipHandler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(c.Request.Context(), userID, clipID); err != nil {
		status, code, message := mapClipError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "clip deleted", nil)
}

func mapClipError(err error) (int, string, string) {
	var clipErr *model.ClipError
	if !errors.As(err, &clipErr) {
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}

	switch clipErr.Code {
	case model.CodeClipNotFound:
		return http.StatusNotFound, clipErr.Code, clipErr.Message
	case model.CodeNotOwner:
		return http.StatusForbidden, clipErr.Code, clipErr.Message
	case model.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge, clipErr.Code, clipErr.Message
	case model.CodeUnsupportedType:
		return http.StatusUnsupportedMediaType, clipErr.Code, clipErr.Message
	case model.CodeValidation:
		message := clipErr.Message
		if clipErr.Err != nil {
			message = clipErr.Err.Error()
		}
		return http.StatusBadRequest, clipErr.Code, message
	default:
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}
}
