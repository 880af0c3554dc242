// Package router wires every HTTP route onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Wellstation/wellstation-sub000/internal/config"
	"github.com/Wellstation/wellstation-sub000/internal/handler"
	"github.com/Wellstation/wellstation-sub000/internal/middleware"
	"github.com/Wellstation/wellstation-sub000/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Booking           *handler.BookingHandler
	Verification      *handler.VerificationHandler
	Feedback          *handler.FeedbackHandler
	Gallery           *handler.GalleryHandler
	Work              *handler.WorkHandler
	Visitor           *handler.VisitorHandler
	Auth              *handler.AuthHandler
	AdminReservations *handler.AdminReservationHandler
	Settings          *handler.SettingHandler
}

// New builds the Echo instance with all routes and middleware attached.
// rdb may be nil, in which case caching and rate limiting become
// pass-throughs.
func New(cfg config.Config, h Handlers, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// uploaded objects served as static files
	e.Static(cfg.StorageBaseURL, cfg.StorageDir)

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.VisitorID())

	v1.GET("/availability", h.Booking.Availability)
	v1.POST("/reservations", h.Booking.Create, limit)
	v1.GET("/reservations", h.Booking.History)
	v1.GET("/reservations/:uid", h.Booking.Get)
	v1.DELETE("/reservations/:uid", h.Booking.Cancel)

	v1.POST("/verifications", h.Verification.Issue, limit)
	v1.POST("/verifications/confirm", h.Verification.Confirm, limit)

	v1.GET("/feedbacks", h.Feedback.List, cache)
	v1.POST("/feedbacks", h.Feedback.Create)

	v1.GET("/gallery", h.Gallery.List, cache)

	v1.GET("/work-records", h.Work.List, cache)
	v1.GET("/work-records/:id", h.Work.Get)
	v1.POST("/work-records/:id/like", h.Work.Like)

	v1.POST("/visits", h.Visitor.Record)
	v1.GET("/visits/count", h.Visitor.Count)

	admin := e.Group("/admin")
	admin.POST("/auth/login", h.Auth.Login, limit)
	admin.POST("/auth/refresh", h.Auth.Refresh)

	guarded := admin.Group("", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	guarded.POST("/auth/register", h.Auth.Register)

	guarded.GET("/reservations", h.AdminReservations.List)
	guarded.POST("/reservations/:id/visit", h.AdminReservations.CompleteVisit)
	guarded.DELETE("/reservations/:uid", h.AdminReservations.Cancel)

	guarded.GET("/settings/:category", h.Settings.Get)
	guarded.PUT("/settings/:category", h.Settings.Update)

	guarded.GET("/gallery", h.Gallery.AdminList)
	guarded.POST("/gallery", h.Gallery.Upload)
	guarded.PATCH("/gallery/:id", h.Gallery.Update)
	guarded.DELETE("/gallery/:id", h.Gallery.Delete)

	guarded.POST("/work-records", h.Work.Create)
	guarded.PUT("/work-records/:id", h.Work.Update)
	guarded.DELETE("/work-records/:id", h.Work.Delete)
	guarded.POST("/work-records/:id/images", h.Work.AddImage)

	guarded.DELETE("/feedbacks/:id", h.Feedback.Delete)

	return e
}
