package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/pkg/errors"
)

// SyncAllFunc reconciles every user's progress rows after catalog growth and
// returns a JSON-marshalable report. Wired up from the progress sync engine.
type SyncAllFunc func(ctx context.Context) (any, error)

type handler struct {
	catalogService *Service
	loader         *Loader
	syncAll        SyncAllFunc
	manifestPath   string
}

// listSubjects returns the shared subject list.
func (h *handler) listSubjects(c echo.Context) error {
	ctx := c.Request().Context()

	subjects, err := h.catalogService.ListSubjects(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"subjects": subjects,
	}))
}

// listChapters returns the chapters under one subject.
func (h *handler) listChapters(c echo.Context) error {
	ctx := c.Request().Context()

	subjectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Subject")
	}

	if _, err := h.catalogService.RetrieveSubject(ctx, subjectID); err != nil {
		return err
	}

	chapters, err := h.catalogService.ListChapters(ctx, subjectID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"chapters": chapters,
	}))
}

// importManifest applies a catalog manifest append-only, then runs a full
// sync so every user picks up the new lectures.
func (h *handler) importManifest(c echo.Context) error {
	ctx := c.Request().Context()

	path := h.manifestPath
	if c.Request().ContentLength > 0 {
		payload := ImportPayload{}
		if err := c.Bind(&payload); err != nil {
			return errors.WithStack(err)
		}
		if payload.Path != "" {
			path = payload.Path
		}
	}
	if path == "" {
		return errcodes.ValidationError("No manifest path configured or provided")
	}

	stats, err := h.loader.ImportFile(ctx, path)
	if err != nil {
		return err
	}

	report, err := h.syncAll(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"imported": stats,
		"sync":     report,
	}))
}
