package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/lecturelog/lecturelog/pkg/migrations"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func testManifest() *Manifest {
	return &Manifest{
		Subjects: []ManifestSubject{
			{
				Name: "Math",
				Chapters: []ManifestChapter{
					{
						Name: "Algebra",
						Lectures: []ManifestLecture{
							{Name: "Sets", Location: "sets.mp4", DurationSeconds: 30},
							{Name: "Functions", Location: "functions.mp4", DurationSeconds: 45},
						},
					},
					{
						Name: "Geometry",
						Lectures: []ManifestLecture{
							{Name: "Angles", Location: "angles.mp4", DurationSeconds: 20},
						},
					},
				},
			},
		},
	}
}

func TestLoaderApply_CreatesHierarchy(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	loader := NewLoader(db)
	ctx := context.Background()

	stats, err := loader.Apply(ctx, testManifest())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Subjects)
	assert.Equal(t, 2, stats.Chapters)
	assert.Equal(t, 3, stats.Lectures)

	lectures := []*models.Lecture{}
	err = db.NewSelect().Model(&lectures).Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, lectures, 3)
}

func TestLoaderApply_AppendOnly(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	loader := NewLoader(db)
	ctx := context.Background()

	_, err := loader.Apply(ctx, testManifest())
	require.NoError(t, err)

	// Re-importing the same manifest, even with a changed duration, creates
	// nothing and leaves the existing rows untouched.
	again := testManifest()
	again.Subjects[0].Chapters[0].Lectures[0].DurationSeconds = 999

	stats, err := loader.Apply(ctx, again)
	require.NoError(t, err)
	assert.Zero(t, stats.Subjects)
	assert.Zero(t, stats.Chapters)
	assert.Zero(t, stats.Lectures)

	lecture := &models.Lecture{}
	err = db.NewSelect().
		Model(lecture).
		Where("name = ?", "Sets").
		Scan(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 30, lecture.DurationSeconds)
}

func TestLoaderApply_NewLecturesUnderExistingChapter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	loader := NewLoader(db)
	ctx := context.Background()

	_, err := loader.Apply(ctx, testManifest())
	require.NoError(t, err)

	grown := testManifest()
	grown.Subjects[0].Chapters[0].Lectures = append(grown.Subjects[0].Chapters[0].Lectures,
		ManifestLecture{Name: "Relations", Location: "relations.mp4", DurationSeconds: 15})

	stats, err := loader.Apply(ctx, grown)
	require.NoError(t, err)
	assert.Zero(t, stats.Subjects)
	assert.Zero(t, stats.Chapters)
	assert.Equal(t, 1, stats.Lectures)
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(m *Manifest)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(_ *Manifest) {},
		},
		{
			name:    "empty subject name",
			mutate:  func(m *Manifest) { m.Subjects[0].Name = "" },
			wantErr: "Subject name can't be empty",
		},
		{
			name:    "empty chapter name",
			mutate:  func(m *Manifest) { m.Subjects[0].Chapters[0].Name = "" },
			wantErr: `Chapter name can't be empty in subject "Math"`,
		},
		{
			name:    "empty lecture name",
			mutate:  func(m *Manifest) { m.Subjects[0].Chapters[0].Lectures[0].Name = "" },
			wantErr: `Lecture name can't be empty in chapter "Algebra"`,
		},
		{
			name:    "negative duration",
			mutate:  func(m *Manifest) { m.Subjects[0].Chapters[0].Lectures[0].DurationSeconds = -1 },
			wantErr: `Lecture "Sets" duration can't be negative`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := testManifest()
			tt.mutate(m)

			err := m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	contents := `subjects:
  - name: Math
    chapters:
      - name: Algebra
        lectures:
          - name: Sets
            location: sets.mp4
            duration_seconds: 30
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	manifest, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, manifest.Subjects, 1)
	require.Len(t, manifest.Subjects[0].Chapters, 1)
	require.Len(t, manifest.Subjects[0].Chapters[0].Lectures, 1)

	lecture := manifest.Subjects[0].Chapters[0].Lectures[0]
	assert.Equal(t, "Sets", lecture.Name)
	assert.Equal(t, "sets.mp4", lecture.Location)
	assert.EqualValues(t, 30, lecture.DurationSeconds)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
