package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core/attendance"
)

type dateApi struct {
	deps ServerDeps
}

func registerDateAPI(g *echo.Group, session echo.MiddlewareFunc, deps ServerDeps) {
	api := dateApi{deps: deps}

	dg := g.Group("/dates", session)
	dg.GET("", api.query)
	dg.GET("/:id/entries", api.entries)
	dg.PATCH("/:id/users/:userId", api.updateEntry)

	// admin endpoints
	dg.POST("", api.create, adminMiddleware())
	dg.DELETE("/:id", api.destroy, adminMiddleware())
	dg.POST("/:id/reset", api.reset, adminMiddleware())
}

func (api *dateApi) query(ctx echo.Context) error {
	dates, err := api.deps.AttendanceSvc.QueryDates(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying dates")
	}
	if dates == nil {
		dates = []attendance.Date{}
	}
	return ctx.JSON(http.StatusOK, dates)
}

func (api *dateApi) create(ctx echo.Context) error {
	var data attendance.NewDate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDate")
	}

	date, err := api.deps.AttendanceSvc.CreateDate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, date)
}

func (api *dateApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if err = api.deps.AttendanceSvc.DeleteDate(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *dateApi) entries(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	entries, err := api.deps.AttendanceSvc.Entries(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []attendance.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

// updateEntry runs one {field, value} edit through the transition rules.
// Students hit this for their own row; admins for any row and field.
func (api *dateApi) updateEntry(ctx echo.Context) error {
	dateID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		return errHttpNotFound
	}

	var data attendance.FieldUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FieldUpdate")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	actor := attendance.Actor{Email: claims.Email, Admin: claims.IsAdmin}

	entry, err := api.deps.AttendanceSvc.ApplyFieldUpdate(ctx.Request().Context(), actor, dateID, userID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *dateApi) reset(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if err = api.deps.AttendanceSvc.ResetDate(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
