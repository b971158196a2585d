package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service owns per-user lecture tracking: the progress store, the sync
// engine (sync.go), and duration aggregation (aggregate.go).
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// ListForChapter returns the user's progress rows for a chapter joined with
// catalog lecture data, ordered by lecture name. Only rows owned by userID
// are returned.
func (svc *Service) ListForChapter(ctx context.Context, userID, chapterID int) ([]*models.LectureProgress, error) {
	rows := []*models.LectureProgress{}
	err := svc.db.NewSelect().
		Model(&rows).
		Relation("Lecture").
		Where("lecture.chapter_id = ?", chapterID).
		Where("lp.user_id = ?", userID).
		OrderExpr("lecture.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// ToggleWatched flips the watched flag on the progress row for (userID,
// lectureID) and returns the new value. This is the only mutation path for
// watched. Rows that don't exist or belong to someone else both come back as
// NotFound. Concurrent toggles are last-write-wins.
func (svc *Service) ToggleWatched(ctx context.Context, userID, lectureID int) (bool, error) {
	row := &models.LectureProgress{}
	err := svc.db.NewSelect().
		Model(row).
		Where("lp.user_id = ?", userID).
		Where("lp.lecture_id = ?", lectureID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, errcodes.NotFound("Lecture")
		}
		return false, errors.WithStack(err)
	}

	newValue := !row.Watched
	_, err = svc.db.NewUpdate().
		Model((*models.LectureProgress)(nil)).
		Set("watched = ?", newValue).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", row.ID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return newValue, nil
}
