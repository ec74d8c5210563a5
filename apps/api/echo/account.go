package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
)

type accountApi struct {
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := accountApi{deps: deps}

	ag := g.Group("/auth")
	// TODO: rate limit `/login`
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := accountApi{deps: deps}

	tg := g.Group("/teachers", jwt, adminMiddleware())
	tg.GET("", api.queryTeachers)
	tg.POST("", api.createTeacher)
	tg.POST("/import", api.importTeachers)
	tg.DELETE("", api.destroyTeachers)
	tg.PUT("/:id", api.updateTeacher)
	tg.DELETE("/:id", api.destroyTeacher)

	adg := g.Group("/admins", jwt, adminMiddleware())
	adg.GET("", api.queryAdmins)
	adg.POST("", api.createAdmin)
	adg.PUT("/:id", api.updateAdmin)

	pg := g.Group("/profile", jwt)
	pg.GET("", api.retrieveProfile)
	pg.PUT("", api.updateProfile)
}

// Handlers

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := authenticate(api.deps.Conf, data.Username, data.Password, api.deps.AccountSvc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *accountApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.Conf, api.deps.AccountSvc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *accountApi) create(ctx echo.Context, role string) error {
	var data account.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	data.Role = role
	if err := data.Validate(api.deps.Validate, api.deps.AccountSvc); err != nil {
		return err
	}

	acct, err := api.deps.AccountSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating account")
	}
	return ctx.JSON(http.StatusCreated, acct)
}

func (api *accountApi) createTeacher(ctx echo.Context) error {
	return api.create(ctx, account.RoleTeacher)
}

func (api *accountApi) createAdmin(ctx echo.Context) error {
	return api.create(ctx, account.RoleAdmin)
}

func (api *accountApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.deps.AccountSvc.QueryTeachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []account.Account{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *accountApi) queryAdmins(ctx echo.Context) error {
	admins, err := api.deps.AccountSvc.QueryAdmins()
	if err != nil {
		return errors.Wrap(err, "querying admins")
	}
	if admins == nil {
		admins = []account.Account{}
	}
	return ctx.JSON(http.StatusOK, admins)
}

func (api *accountApi) importTeachers(ctx echo.Context) error {
	var data ImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	res, err := api.deps.AccountSvc.BulkImportTeachers(account.RowsFromTable(data.Rows))
	if err != nil {
		return errors.Wrap(err, "importing teachers")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *accountApi) update(ctx echo.Context, role string) error {
	orig, err := api.deps.AccountSvc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding account by ID")
	}
	if orig.Role != role {
		return errHttpNotFound
	}

	var data account.UpdateAccount
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAccount")
	}
	if err = data.Validate(api.deps.Validate, orig, api.deps.AccountSvc); err != nil {
		return err
	}

	acct, err := api.deps.AccountSvc.Update(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating account")
	}
	return ctx.JSON(http.StatusOK, acct)
}

func (api *accountApi) updateTeacher(ctx echo.Context) error {
	return api.update(ctx, account.RoleTeacher)
}

func (api *accountApi) updateAdmin(ctx echo.Context) error {
	return api.update(ctx, account.RoleAdmin)
}

func (api *accountApi) destroyTeacher(ctx echo.Context) error {
	if err := api.deps.AccountSvc.DeleteTeachers(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *accountApi) destroyTeachers(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.deps.AccountSvc.DeleteTeachers(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting teachers")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *accountApi) retrieveProfile(ctx echo.Context) error {
	acct, err := getContextAccount(ctx, api.deps.AccountSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}
	return ctx.JSON(http.StatusOK, acct)
}

func (api *accountApi) updateProfile(ctx echo.Context) error {
	acct, err := getContextAccount(ctx, api.deps.AccountSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	var data account.UpdateAccount
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAccount")
	}
	if err = data.Validate(api.deps.Validate, acct, api.deps.AccountSvc); err != nil {
		return err
	}

	acct, err = api.deps.AccountSvc.Update(acct.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, acct)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	// ImportRequest carries raw tabular rows (first row = headers) parsed out
	// of an uploaded sheet by the frontend.
	ImportRequest struct {
		Rows [][]string `json:"rows" validate:"required"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (ir *ImportRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ir)
}
