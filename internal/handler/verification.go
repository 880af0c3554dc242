package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/notify"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/utils"
)

// VerificationHandler issues and confirms phone verification codes.
// Issuing sends the code synchronously through the notifier because the
// SMS is the whole point of the request; a gateway failure is reported
// as 502 rather than silently swallowed.
type VerificationHandler struct {
	Verifications *repository.VerificationRepo
	Notifier      notify.Notifier
	Log           zerolog.Logger
}

// NewVerificationHandler wires the verification handler.
func NewVerificationHandler(ver *repository.VerificationRepo, n notify.Notifier, log zerolog.Logger) *VerificationHandler {
	return &VerificationHandler{Verifications: ver, Notifier: n, Log: log}
}

type issueCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=9,max=20"`
}

// Issue generates a 6-digit code, stores it and sends it to the phone.
// POST /v1/verifications
func (h *VerificationHandler) Issue(c echo.Context) error {
	var req issueCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	code, err := utils.NewVerificationCode()
	if err != nil {
		h.Log.Error().Err(err).Msg("generate verification code failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	v := &model.PhoneVerification{
		Phone:     req.Phone,
		Code:      code,
		ExpiresAt: time.Now().Add(model.VerificationTTL),
	}
	ctx := c.Request().Context()
	if err := h.Verifications.Create(ctx, v); err != nil {
		h.Log.Error().Err(err).Msg("store verification code failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := h.Notifier.SendTemplated(ctx, req.Phone, notify.TemplateVerification,
		map[string]string{"code": code}); err != nil {
		h.Log.Error().Err(err).Msg("verification dispatch failed")
		return echo.NewHTTPError(http.StatusBadGateway, "verification dispatch failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"expires_in": int(model.VerificationTTL / time.Second),
	})
}

type confirmCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=9,max=20"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Confirm consumes a code. POST /v1/verifications/confirm
func (h *VerificationHandler) Confirm(c echo.Context) error {
	var req confirmCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	err := h.Verifications.Consume(c.Request().Context(), req.Phone, req.Code)
	if errors.Is(err, repository.ErrCodeInvalid) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired code")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("consume verification code failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": true})
}
