package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"riffs-backend/internal/domains/user/model"
	"riffs-backend/internal/domains/user/service"
	"riffs-backend/internal/shared/middleware"
	"riffs-backend/internal/shared/response"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusCreated, "account created, check your email to verify", result)
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "logged in", result)
}

// Refresh handles POST /auth/refresh.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "token refreshed", pair)
}

// VerifyEmail handles POST /auth/verify-email.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var req model.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, err.Error())
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "email verified", nil)
}

// ResendVerification handles POST /auth/resend-verification.
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req model.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, err.Error())
		return
	}

	if err := h.service.ResendVerification(c.Request.Context(), req.Email); err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "verification email sent if the address is registered", nil)
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, err.Error())
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "reset email sent if the address is registered", nil)
}

// ResetPassword handles POST /auth/reset-password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "password updated", nil)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "AUTH001", "authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", profile)
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "AUTH001", "authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "profile updated", profile)
}

// LookupProfiles handles POST /profiles/lookup.
func (h *UserHandler) LookupProfiles(c *gin.Context) {
	var req model.ProfileLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.CodeValidation, "invalid request body")
		return
	}

	profiles, err := h.service.LookupProfiles(c.Request.Context(), req)
	if err != nil {
		status, code, message := mapUserError(err)
		response.Error(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, "", profiles)
}

func mapUserError(err error) (int, string, string) {
	var userErr *model.UserError
	if !errors.As(err, &userErr) {
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}

	switch userErr.Code {
	case model.CodeUserNotFound:
		return http.StatusNotFound, userErr.Code, userErr.Message
	case model.CodeEmailTaken, model.CodeDisplayNameTaken, model.CodeAlreadyVerified:
		return http.StatusConflict, userErr.Code, userErr.Message
	case model.CodeInvalidCredentials, model.CodeInvalidToken, model.CodeTokenExpired:
		return http.StatusUnauthorized, userErr.Code, userErr.Message
	case model.CodeEmailNotVerified:
		return http.StatusForbidden, userErr.Code, userErr.Message
	case model.CodeTooManyAttempts:
		return http.StatusTooManyRequests, userErr.Code, userErr.Message
	case model.CodeValidation:
		message := userErr.Message
		if userErr.Err != nil {
			message = userErr.Err.Error()
		}
		return http.StatusBadRequest, userErr.Code, message
	default:
		return http.StatusInternalServerError, model.CodeInternal, "internal server error"
	}
}
