package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core/user"
)

type userApi struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, session echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{deps: deps}

	ug := g.Group("/users", session)
	ug.GET("", api.query)

	// admin endpoints
	ug.POST("", api.bulkImport, adminMiddleware())
	ug.PATCH("/:id", api.updateField, adminMiddleware())
	ug.DELETE("/:id", api.destroy, adminMiddleware())
}

type BulkImportRequest struct {
	Users []user.NewUser `json:"users"`
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.deps.UserSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

// bulkImport inserts-or-updates roster rows keyed on email. Rows that fail
// validation are skipped; the SPA re-fetches the roster afterwards.
func (api *userApi) bulkImport(ctx echo.Context) error {
	var data BulkImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkImportRequest")
	}

	n, err := api.deps.UserSvc.BulkUpsert(ctx.Request().Context(), data.Users)
	if err != nil {
		return errors.Wrap(err, "importing users")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": n})
}

func (api *userApi) updateField(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data user.UpdateUserField
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUserField")
	}

	usr, err := api.deps.UserSvc.UpdateField(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if err = api.deps.UserSvc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
