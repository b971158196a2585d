package progress

import (
	"context"

	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/pkg/errors"
)

// DurationSummary is watched-vs-total watch time in seconds. Sums are int64
// so thousands of lectures can't overflow them. A scope with no progress
// rows yields (0, 0).
type DurationSummary struct {
	WatchedSeconds int64 `json:"watched_duration"`
	TotalSeconds   int64 `json:"total_duration"`
}

// ChapterDuration sums the user's progress-row durations for one chapter,
// split by watched flag.
func (svc *Service) ChapterDuration(ctx context.Context, userID, chapterID int) (*DurationSummary, error) {
	summary := &DurationSummary{}
	err := svc.db.NewSelect().
		Model((*models.LectureProgress)(nil)).
		ColumnExpr("COALESCE(SUM(CASE WHEN lp.watched THEN lp.duration_seconds ELSE 0 END), 0)").
		ColumnExpr("COALESCE(SUM(lp.duration_seconds), 0)").
		Join("JOIN lectures AS l ON l.id = lp.lecture_id").
		Where("l.chapter_id = ?", chapterID).
		Where("lp.user_id = ?", userID).
		Scan(ctx, &summary.WatchedSeconds, &summary.TotalSeconds)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return summary, nil
}

// SubjectDuration is the same aggregation across every chapter under the
// subject.
func (svc *Service) SubjectDuration(ctx context.Context, userID, subjectID int) (*DurationSummary, error) {
	summary := &DurationSummary{}
	err := svc.db.NewSelect().
		Model((*models.LectureProgress)(nil)).
		ColumnExpr("COALESCE(SUM(CASE WHEN lp.watched THEN lp.duration_seconds ELSE 0 END), 0)").
		ColumnExpr("COALESCE(SUM(lp.duration_seconds), 0)").
		Join("JOIN lectures AS l ON l.id = lp.lecture_id").
		Join("JOIN chapters AS ch ON ch.id = l.chapter_id").
		Where("ch.subject_id = ?", subjectID).
		Where("lp.user_id = ?", userID).
		Scan(ctx, &summary.WatchedSeconds, &summary.TotalSeconds)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return summary, nil
}
