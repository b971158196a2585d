package progress

import (
	"github.com/labstack/echo/v4"
	"github.com/lecturelog/lecturelog/pkg/auth"
	"github.com/lecturelog/lecturelog/pkg/catalog"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the progress routes and returns the service so
// other packages (registration, catalog import) can trigger syncs.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	svc := NewService(db)
	h := &handler{
		progressService: svc,
		catalogService:  catalog.NewService(db),
	}

	read := authMiddleware.RequirePermission(models.ResourceProgress, models.OperationRead)
	write := authMiddleware.RequirePermission(models.ResourceProgress, models.OperationWrite)
	sync := authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationSync)

	e.GET("/chapters/:id/lectures", h.listForChapter, authMiddleware.Authenticate, read)
	e.GET("/chapters/:id/duration", h.chapterDuration, authMiddleware.Authenticate, read)
	e.GET("/subjects/:id/duration", h.subjectDuration, authMiddleware.Authenticate, read)
	e.PUT("/lectures/:id/toggle-watched", h.toggleWatched, authMiddleware.Authenticate, write)
	e.POST("/sync", h.syncAll, authMiddleware.Authenticate, sync)

	return svc
}
