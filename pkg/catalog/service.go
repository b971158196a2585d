package catalog

import (
	"context"
	"database/sql"

	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service exposes read access to the shared catalog. Nothing here mutates
// catalog rows; growth happens only through the Loader.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// ListSubjects returns all subjects ordered by name.
func (svc *Service) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects := []*models.Subject{}
	err := svc.db.NewSelect().
		Model(&subjects).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return subjects, nil
}

// ListChapters returns all chapters for a subject ordered by name.
func (svc *Service) ListChapters(ctx context.Context, subjectID int) ([]*models.Chapter, error) {
	chapters := []*models.Chapter{}
	err := svc.db.NewSelect().
		Model(&chapters).
		Where("subject_id = ?", subjectID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return chapters, nil
}

// ListLectures returns all catalog lectures for a chapter in insertion order.
func (svc *Service) ListLectures(ctx context.Context, chapterID int) ([]*models.Lecture, error) {
	lectures := []*models.Lecture{}
	err := svc.db.NewSelect().
		Model(&lectures).
		Where("chapter_id = ?", chapterID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return lectures, nil
}

// RetrieveSubject gets a subject by ID.
func (svc *Service) RetrieveSubject(ctx context.Context, id int) (*models.Subject, error) {
	subject := &models.Subject{}
	err := svc.db.NewSelect().
		Model(subject).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Subject")
		}
		return nil, errors.WithStack(err)
	}
	return subject, nil
}

// RetrieveChapter gets a chapter by ID.
func (svc *Service) RetrieveChapter(ctx context.Context, id int) (*models.Chapter, error) {
	chapter := &models.Chapter{}
	err := svc.db.NewSelect().
		Model(chapter).
		Where("ch.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Chapter")
		}
		return nil, errors.WithStack(err)
	}
	return chapter, nil
}
