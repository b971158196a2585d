package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

// Syncer back-fills progress rows for a user. Implemented by the progress
// sync engine; registration uses it so a new user starts with a tracking row
// for every catalog lecture.
type Syncer interface {
	SyncUser(ctx context.Context, userID int) error
}

type handler struct {
	authService *Service
	syncer      Syncer
}

// buildMeResponse builds a MeResponse from a user model.
func buildMeResponse(user *models.User) MeResponse {
	roleName := ""
	permissions := make([]string, 0)
	if user.Role != nil {
		roleName = user.Role.Name
		for _, p := range user.Role.Permissions {
			permissions = append(permissions, p.Resource+":"+p.Operation)
		}
	}

	return MeResponse{
		ID:          user.ID,
		Username:    user.Username,
		RoleID:      user.RoleID,
		RoleName:    roleName,
		Permissions: permissions,
	}
}

// register creates a new member user and seeds their progress rows from the
// current catalog.
func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Register(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	if err := h.syncer.SyncUser(ctx, user.ID); err != nil {
		// The user exists either way; the next sync pass converges their
		// rows, so report the failure without rolling back registration.
		logger.FromEchoContext(c).Err(err).Error("initial progress sync failed")
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// login handles user login and issues a bearer token.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// me returns the current authenticated user's info. Registered behind the
// Authenticate middleware, which is the only token gate.
func (h *handler) me(c echo.Context) error {
	user, ok := UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	return c.JSON(http.StatusOK, buildMeResponse(user))
}

// status returns whether the app still needs its first admin created.
func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.authService.CountUsers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, StatusResponse{
		NeedsSetup: count == 0,
	})
}

// setup creates the first admin user and logs them in.
func (h *handler) setup(c echo.Context) error {
	ctx := c.Request().Context()

	params := SetupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.CreateFirstAdmin(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	if err := h.syncer.SyncUser(ctx, user.ID); err != nil {
		logger.FromEchoContext(c).Err(err).Error("initial progress sync failed")
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, SetupResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
	})
}
