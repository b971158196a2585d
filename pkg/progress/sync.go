package progress

import (
	"context"

	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/pkg/errors"
)

// SyncFailure records one user whose sync did not complete.
type SyncFailure struct {
	UserID int    `json:"user_id"`
	Error  string `json:"error"`
}

// SyncReport summarizes a SyncAll pass.
type SyncReport struct {
	UsersSynced int           `json:"users_synced"`
	Failures    []SyncFailure `json:"failures"`
}

// SyncUser back-fills the user's progress rows from the current catalog: one
// row per catalog lecture, created with watched=false and the lecture's
// duration snapshotted at creation time. Existing rows are never touched, so
// a toggled watched flag survives any number of syncs.
//
// Each insert is ON CONFLICT DO NOTHING against the (user_id, lecture_id)
// unique index. That makes the call idempotent and safe against a concurrent
// sync for the same user: a lost race means the row already exists, which is
// the outcome we wanted.
//
// The catalog is read as a point-in-time view. A lecture added mid-sync may
// or may not be picked up in this pass; the next pass converges it.
func (svc *Service) SyncUser(ctx context.Context, userID int) error {
	chapters := []*models.Chapter{}
	err := svc.db.NewSelect().
		Model(&chapters).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read catalog chapters")
	}

	for _, chapter := range chapters {
		lectures := []*models.Lecture{}
		err := svc.db.NewSelect().
			Model(&lectures).
			Where("chapter_id = ?", chapter.ID).
			Order("id ASC").
			Scan(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to read catalog lectures")
		}

		for _, lecture := range lectures {
			row := &models.LectureProgress{
				UserID:          userID,
				LectureID:       lecture.ID,
				Watched:         false,
				DurationSeconds: lecture.DurationSeconds,
			}
			_, err := svc.db.NewInsert().
				Model(row).
				On("CONFLICT (user_id, lecture_id) DO NOTHING").
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to create progress row for lecture %d", lecture.ID)
			}
		}
	}

	return nil
}

// SyncAll runs SyncUser for every user. Each user is an independent unit of
// work: one user's failure is recorded in the report and the remaining users
// are still processed.
func (svc *Service) SyncAll(ctx context.Context) (*SyncReport, error) {
	userIDs := []int{}
	err := svc.db.NewSelect().
		Model((*models.User)(nil)).
		Column("id").
		Order("id ASC").
		Scan(ctx, &userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	report := &SyncReport{Failures: []SyncFailure{}}
	for _, userID := range userIDs {
		if err := svc.SyncUser(ctx, userID); err != nil {
			report.Failures = append(report.Failures, SyncFailure{
				UserID: userID,
				Error:  err.Error(),
			})
			continue
		}
		report.UsersSynced++
	}

	return report, nil
}
