package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSubjects_OrderedByName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"Physics", "Chemistry", "Math"} {
		_, err := db.NewInsert().Model(&models.Subject{Name: name}).Exec(ctx)
		require.NoError(t, err)
	}

	subjects, err := svc.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	assert.Equal(t, "Chemistry", subjects[0].Name)
	assert.Equal(t, "Math", subjects[1].Name)
	assert.Equal(t, "Physics", subjects[2].Name)
}

func TestListChapters_ScopedToSubject(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	loader := NewLoader(db)
	ctx := context.Background()

	_, err := loader.Apply(ctx, &Manifest{
		Subjects: []ManifestSubject{
			{Name: "Math", Chapters: []ManifestChapter{{Name: "Geometry"}, {Name: "Algebra"}}},
			{Name: "Physics", Chapters: []ManifestChapter{{Name: "Mechanics"}}},
		},
	})
	require.NoError(t, err)

	math := &models.Subject{}
	err = db.NewSelect().Model(math).Where("name = ?", "Math").Scan(ctx)
	require.NoError(t, err)

	chapters, err := svc.ListChapters(ctx, math.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Algebra", chapters[0].Name)
	assert.Equal(t, "Geometry", chapters[1].Name)
}

func TestRetrieveChapter_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveChapter(context.Background(), 42)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusNotFound, codeErr.HTTPCode)
}

func TestRetrieveChapter_StorageErrorIsNotNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	loader := NewLoader(db)
	_, err := loader.Apply(ctx, testManifest())
	require.NoError(t, err)

	chapter := &models.Chapter{}
	err = db.NewSelect().Model(chapter).Where("name = ?", "Algebra").Scan(ctx)
	require.NoError(t, err)

	// A failing store must surface as a server error, not as a missing row.
	require.NoError(t, db.Close())

	_, err = svc.RetrieveChapter(ctx, chapter.ID)
	require.Error(t, err)

	var codeErr *errcodes.Error
	assert.False(t, errors.As(err, &codeErr))
}

func TestRetrieveSubject_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveSubject(context.Background(), 42)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusNotFound, codeErr.HTTPCode)
}
