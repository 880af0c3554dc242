package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/utils"
)

// AuthHandler authenticates back-office admins. Access tokens are short
// JWTs; refresh tokens are opaque, stored hashed and rotated on use.
type AuthHandler struct {
	Admins         *repository.AdminRepo
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
	Log            zerolog.Logger
}

// NewAuthHandler wires the auth handler.
func NewAuthHandler(admins *repository.AdminRepo, secret string, accessTTLMin, refreshTTLDays, bcryptCost int, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		Admins:         admins,
		JWTSecret:      secret,
		AccessTTLMin:   accessTTLMin,
		RefreshTTLDays: refreshTTLDays,
		BcryptCost:     bcryptCost,
		Log:            log,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login exchanges credentials for a token pair. POST /admin/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	admin, err := h.Admins.GetByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		// uniform message, no account enumeration
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("load admin failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !utils.VerifyPassword(admin.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return h.issuePair(c, admin.ID, admin.Role)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh rotates a refresh token into a new token pair.
// POST /admin/auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	admin, err := h.Admins.ConsumeRefresh(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("consume refresh token failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return h.issuePair(c, admin.ID, admin.Role)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates another admin account. Reachable only behind the JWT
// and role guard, so only an existing admin can add one.
// POST /admin/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id, err := h.Admins.Create(c.Request().Context(), req.Email, req.Password, h.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("create admin failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": req.Email})
}

func (h *AuthHandler) issuePair(c echo.Context, adminID uint64, role string) error {
	access, err := utils.NewAccessToken(h.JWTSecret, adminID, role, h.AccessTTLMin)
	if err != nil {
		h.Log.Error().Err(err).Msg("sign access token failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refresh, err := utils.NewRefreshToken(h.RefreshTTLDays)
	if err != nil {
		h.Log.Error().Err(err).Msg("generate refresh token failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := h.Admins.StoreRefresh(c.Request().Context(), adminID,
		utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		h.Log.Error().Err(err).Msg("store refresh token failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access.Token,
		"expires_at":    access.Exp.Format(apiTimeLayout),
		"refresh_token": refresh.Raw,
	})
}
