package progress

import (
	"context"
	"database/sql"
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

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, username string) int {
	t.Helper()

	role := &models.Role{}
	err := db.NewSelect().
		Model(role).
		Where("name = ?", models.RoleMember).
		Scan(ctx)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		RoleID:       role.ID,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	return user.ID
}

func createTestChapter(ctx context.Context, t *testing.T, db *bun.DB, subjectName, chapterName string) int {
	t.Helper()

	subject := &models.Subject{Name: subjectName}
	_, err := db.NewInsert().
		Model(subject).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	require.NoError(t, err)
	if subject.ID == 0 {
		err = db.NewSelect().Model(subject).Where("name = ?", subjectName).Scan(ctx)
		require.NoError(t, err)
	}

	chapter := &models.Chapter{SubjectID: subject.ID, Name: chapterName}
	_, err = db.NewInsert().Model(chapter).Exec(ctx)
	require.NoError(t, err)

	return chapter.ID
}

func createTestLecture(ctx context.Context, t *testing.T, db *bun.DB, chapterID int, name string, duration int64) int {
	t.Helper()

	lecture := &models.Lecture{
		ChapterID:       chapterID,
		Name:            name,
		Location:        name + ".mp4",
		DurationSeconds: duration,
	}
	_, err := db.NewInsert().Model(lecture).Exec(ctx)
	require.NoError(t, err)

	return lecture.ID
}

func chapterSubjectID(ctx context.Context, t *testing.T, db *bun.DB, chapterID int) int {
	t.Helper()

	chapter := &models.Chapter{}
	err := db.NewSelect().
		Model(chapter).
		Where("id = ?", chapterID).
		Scan(ctx)
	require.NoError(t, err)

	return chapter.SubjectID
}

func countProgressRows(ctx context.Context, t *testing.T, db *bun.DB, userID int) int {
	t.Helper()

	count, err := db.NewSelect().
		Model((*models.LectureProgress)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	require.NoError(t, err)

	return count
}

func TestSyncUser_CreatesRowForEveryLecture(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	chapterID := createTestChapter(ctx, t, db, "Math", "Algebra")
	createTestLecture(ctx, t, db, chapterID, "L1", 30)
	createTestLecture(ctx, t, db, chapterID, "L2", 45)

	userID := createTestUser(ctx, t, db, "alice")

	err := svc.SyncUser(ctx, userID)
	require.NoError(t, err)

	rows := []*models.LectureProgress{}
	err = db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Scan(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.False(t, row.Watched)
	}
}

func TestSyncUser_Idempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	chapterID := createTestChapter(ctx, t, db, "Math", "Algebra")
	createTestLecture(ctx, t, db, chapterID, "L1", 30)
	createTestLecture(ctx, t, db, chapterID, "L2", 45)

	userID := createTestUser(ctx, t, db, "alice")

	require.NoError(t, svc.SyncUser(ctx, userID))
	count := countProgressRows(ctx, t, db, userID)
	assert.Equal(t, 2, count)

	// Repeated syncs with an unchanged catalog never add or remove rows.
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.SyncUser(ctx, userID))
		assert.Equal(t, count, countProgressRows(ctx, t, db, userID))
	}
}

func TestSyncUser_CopiesDurationSnapshot(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	chapterID := createTestChapter(ctx, t, db, "Math", "Algebra")
	lectureID := createTestLecture(ctx, t, db, chapterID, "L1", 30)

	userID := createTestUser(ctx, t, db, "alice")
	require.NoError(t, svc.SyncUser(ctx, userID))

	row := &models.LectureProgress{}
	err := db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Where("lecture_id = ?", lectureID).
		Scan(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 30, row.DurationSeconds)

	// An out-of-band catalog duration edit doesn't rewrite existing rows;
	// the snapshot taken at creation time stands.
	_, err = db.NewUpdate().
		Model((*models.Lecture)(nil)).
		Set("duration_seconds = ?", 99).
		Where("id = ?", lectureID).
		Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.SyncUser(ctx, userID))

	err = db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Where("lecture_id = ?", lectureID).
		Scan(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 30, row.DurationSeconds)
}

func TestSyncAll_BackfillsWithoutDisturbingExistingRows(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	chapterID := createTestChapter(ctx, t, db, "Math", "Algebra")
	l1 := createTestLecture(ctx, t, db, chapterID, "L1", 30)
	createTestLecture(ctx, t, db, chapterID, "L2", 45)

	alice := createTestUser(ctx, t, db, "alice")
	require.NoError(t, svc.SyncUser(ctx, alice))

	watched, err := svc.ToggleWatched(ctx, alice, l1)
	require.NoError(t, err)
	require.True(t, watched)

	// Catalog grows, then a second user shows up before the next full sync.
	createTestLecture(ctx, t, db, chapterID, "L3", 15)
	bob := createTestUser(ctx, t, db, "bob")

	report, err := svc.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.UsersSynced)
	assert.Empty(t, report.Failures)

	assert.Equal(t, 3, countProgressRows(ctx, t, db, alice))
	assert.Equal(t, 3, countProgressRows(ctx, t, db, bob))

	// Alice's toggle survived the back-fill.
	row := &models.LectureProgress{}
	err = db.NewSelect().
		Model(row).
		Where("user_id = ?", alice).
		Where("lecture_id = ?", l1).
		Scan(ctx)
	require.NoError(t, err)
	assert.True(t, row.Watched)

	// Bob's rows are all unwatched.
	unwatched, err := db.NewSelect().
		Model((*models.LectureProgress)(nil)).
		Where("user_id = ?", bob).
		Where("watched = ?", false).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, unwatched)
}

func TestSyncAll_NoOrphanProgressRows(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	algebra := createTestChapter(ctx, t, db, "Math", "Algebra")
	createTestLecture(ctx, t, db, algebra, "L1", 30)
	geometry := createTestChapter(ctx, t, db, "Math", "Geometry")
	createTestLecture(ctx, t, db, geometry, "G1", 20)

	createTestUser(ctx, t, db, "alice")
	createTestUser(ctx, t, db, "bob")

	_, err := svc.SyncAll(ctx)
	require.NoError(t, err)

	orphans, err := db.NewSelect().
		Model((*models.LectureProgress)(nil)).
		Where("lecture_id NOT IN (SELECT id FROM lectures)").
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}

func TestSyncUser_EmptyCatalogIsANoOp(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	userID := createTestUser(ctx, t, db, "alice")

	require.NoError(t, svc.SyncUser(ctx, userID))
	assert.Zero(t, countProgressRows(ctx, t, db, userID))
}
