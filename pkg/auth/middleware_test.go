package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareTestContext(t *testing.T, authHeader string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	c := newMiddlewareTestContext(t, "Bearer "+token)
	err = m.Authenticate(okHandler)(c)
	require.NoError(t, err)

	userID, ok := UserIDFromContext(c)
	require.True(t, ok)
	assert.Equal(t, user.ID, userID)

	ctxUser, ok := UserFromContext(c)
	require.True(t, ok)
	assert.Equal(t, "alice", ctxUser.Username)
}

func TestAuthenticate_BareTokenAccepted(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	c := newMiddlewareTestContext(t, token)
	err = m.Authenticate(okHandler)(c)
	require.NoError(t, err)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	m := NewMiddleware(NewService(db, "test-jwt-secret"))

	c := newMiddlewareTestContext(t, "")
	err := m.Authenticate(okHandler)(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	m := NewMiddleware(NewService(db, "test-jwt-secret"))

	c := newMiddlewareTestContext(t, "Bearer garbage")
	err := m.Authenticate(okHandler)(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	_, err = db.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", user.ID).
		Exec(ctx)
	require.NoError(t, err)

	c := newMiddlewareTestContext(t, "Bearer "+token)
	err = m.Authenticate(okHandler)(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	// Member role can read the catalog.
	c := newMiddlewareTestContext(t, "")
	c.Set(ContextKeyUser, user)
	err = m.RequirePermission(models.ResourceCatalog, models.OperationRead)(okHandler)(c)
	require.NoError(t, err)

	// But not trigger a sync of every user.
	c = newMiddlewareTestContext(t, "")
	c.Set(ContextKeyUser, user)
	err = m.RequirePermission(models.ResourceCatalog, models.OperationSync)(okHandler)(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusForbidden, codeErr.HTTPCode)
}

func TestRequirePermission_NoUserInContext(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	m := NewMiddleware(NewService(db, "test-jwt-secret"))

	c := newMiddlewareTestContext(t, "")
	err := m.RequirePermission(models.ResourceProgress, models.OperationRead)(okHandler)(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}
