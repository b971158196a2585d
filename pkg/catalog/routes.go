package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/lecturelog/lecturelog/pkg/auth"
	"github.com/lecturelog/lecturelog/pkg/config"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers catalog browsing and import routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware, syncAll SyncAllFunc) {
	h := &handler{
		catalogService: NewService(db),
		loader:         NewLoader(db),
		syncAll:        syncAll,
		manifestPath:   cfg.CatalogManifestPath,
	}

	read := authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationRead)
	sync := authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationSync)

	e.GET("/subjects", h.listSubjects, authMiddleware.Authenticate, read)
	e.GET("/subjects/:id/chapters", h.listChapters, authMiddleware.Authenticate, read)
	e.POST("/catalog/import", h.importManifest, authMiddleware.Authenticate, sync)
}
