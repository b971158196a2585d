package progress

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lecturelog/lecturelog/pkg/auth"
	"github.com/lecturelog/lecturelog/pkg/catalog"
	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/pkg/errors"
)

type handler struct {
	progressService *Service
	catalogService  *catalog.Service
}

// listForChapter returns the caller's progress rows for a chapter, joined
// with catalog data and resolved content locations.
func (h *handler) listForChapter(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	chapterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	chapter, err := h.catalogService.RetrieveChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	subject, err := h.catalogService.RetrieveSubject(ctx, chapter.SubjectID)
	if err != nil {
		return err
	}

	rows, err := h.progressService.ListForChapter(ctx, userID, chapterID)
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]LectureItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, LectureItem{
			LectureID:       row.LectureID,
			Name:            row.Lecture.Name,
			Watched:         row.Watched,
			DurationSeconds: row.DurationSeconds,
			Location:        catalog.ResolveLocation(subject.Name, chapter.Name, row.Lecture.Name, row.Lecture.Location),
			ChapterID:       chapter.ID,
			ChapterName:     chapter.Name,
			SubjectName:     subject.Name,
		})
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"lectures": items,
	}))
}

// toggleWatched flips the watched flag on the caller's row for a lecture.
func (h *handler) toggleWatched(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	lectureID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Lecture")
	}

	watched, err := h.progressService.ToggleWatched(ctx, userID, lectureID)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, ToggleResponse{
		LectureID: lectureID,
		Watched:   watched,
	}))
}

// chapterDuration returns the caller's watched/total seconds for a chapter.
func (h *handler) chapterDuration(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	chapterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	if _, err := h.catalogService.RetrieveChapter(ctx, chapterID); err != nil {
		return err
	}

	summary, err := h.progressService.ChapterDuration(ctx, userID, chapterID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, summary))
}

// subjectDuration returns the caller's watched/total seconds for a subject.
func (h *handler) subjectDuration(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	subjectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Subject")
	}

	if _, err := h.catalogService.RetrieveSubject(ctx, subjectID); err != nil {
		return err
	}

	summary, err := h.progressService.SubjectDuration(ctx, userID, subjectID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, summary))
}

// syncAll reconciles every user's progress rows with the catalog. Gated
// behind the catalog sync capability, so plain members can't invoke it.
func (h *handler) syncAll(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := h.progressService.SyncAll(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, report))
}
