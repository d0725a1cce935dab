package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Hammad55553/account-service/internal/application"
	"github.com/Hammad55553/account-service/pkg/response"
	"github.com/Hammad55553/account-service/pkg/validation"
)

type RecoveryHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewRecoveryHandler(svc *application.Service, logger *logrus.Logger) *RecoveryHandler {
	return &RecoveryHandler{Svc: svc, Logger: logger}
}

// Request POST /api/recovery/request {email}
// Always acknowledges, whether or not the email is registered.
func (h *RecoveryHandler) Request(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestReset(c.Request.Context(), req.Email); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("reset request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"requested": true},
		"if the email is registered, a reset code has been sent", nil)
}

// Confirm POST /api/recovery/confirm {otp, new_password}
func (h *RecoveryHandler) Confirm(c *gin.Context) {
	var req struct {
		OTP         string `json:"otp" binding:"required,otp"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ConfirmReset(c.Request.Context(), req.OTP, req.NewPassword); err != nil {
		if errors.Is(err, application.ErrInvalidOrExpiredOTP) {
			response.Error[any](c, http.StatusBadRequest, "invalid or expired code", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("reset confirm failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}
