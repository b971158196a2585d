package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lecturelog/lecturelog/pkg/auth"
	"github.com/lecturelog/lecturelog/pkg/binder"
	"github.com/lecturelog/lecturelog/pkg/catalog"
	"github.com/lecturelog/lecturelog/pkg/config"
	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/progress"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	health.RegisterRoutes(e)

	authService := auth.NewService(db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	// Progress routes come first so registration and catalog import can
	// trigger syncs through the returned service.
	progressService := progress.RegisterRoutes(e, db, authMiddleware)

	auth.RegisterRoutes(e, authService, authMiddleware, progressService)

	catalog.RegisterRoutes(e, db, cfg, authMiddleware, func(ctx context.Context) (any, error) {
		return progressService.SyncAll(ctx)
	})

	// Locally hosted lecture files.
	if cfg.ContentDir != "" {
		e.Static(catalog.ContentRoutePrefix, cfg.ContentDir)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
