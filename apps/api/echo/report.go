package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/report"
)

type reportApi struct {
	deps ServerDeps
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reportApi{deps: deps}

	rg := g.Group("/reports", jwt)

	// teacher side: live recap preview + submission
	rg.GET("/recap", api.recap, teacherMiddleware())
	rg.GET("/recap/sheet", api.recapSheet, teacherMiddleware())
	rg.POST("", api.submit, teacherMiddleware())

	// admin side: submitted snapshots
	rg.GET("", api.query, adminMiddleware())
	rg.GET("/:id", api.retrieve, adminMiddleware())
	rg.DELETE("", api.destroyMultiple, adminMiddleware())
	rg.DELETE("/:id", api.destroy, adminMiddleware())
}

// buildRecap aggregates the requesting teacher's roster for the given month.
func (api *reportApi) buildRecap(ctx echo.Context, month string) ([]report.DailyReport, report.SheetMeta, error) {
	m, err := report.ParseMonth(core.CleanString(month))
	if err != nil {
		return nil, report.SheetMeta{}, core.NewValidationError(err, core.FieldError{Field: "month", Error: "not a valid year-month"})
	}

	acct, err := getContextAccount(ctx, api.deps.AccountSvc)
	if err != nil {
		return nil, report.SheetMeta{}, errors.Wrap(err, "getting context account")
	}

	students, err := api.deps.StudentSvc.QueryByTeacher(acct.ID)
	if err != nil {
		return nil, report.SheetMeta{}, errors.Wrap(err, "querying students")
	}
	ids := make([]string, 0, len(students))
	for _, std := range students {
		ids = append(ids, std.ID)
	}
	records, err := api.deps.HabitSvc.QueryByStudents(ids...)
	if err != nil {
		return nil, report.SheetMeta{}, errors.Wrap(err, "querying habit records")
	}

	meta := report.SheetMeta{
		ClassLabel:  acct.ClassLabel,
		TeacherName: acct.Name,
		Month:       m,
	}
	return report.BuildMonthlyRecap(students, records, m), meta, nil
}

// Handlers

func (api *reportApi) recap(ctx echo.Context) error {
	recap, _, err := api.buildRecap(ctx, ctx.QueryParam("month"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recap)
}

func (api *reportApi) recapSheet(ctx echo.Context) error {
	recap, meta, err := api.buildRecap(ctx, ctx.QueryParam("month"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report.BuildSheetMatrix(meta, recap))
}

func (api *reportApi) submit(ctx echo.Context) error {
	var data SubmitReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitReportRequest")
	}

	recap, meta, err := api.buildRecap(ctx, data.Month)
	if err != nil {
		return err
	}

	acct, err := getContextAccount(ctx, api.deps.AccountSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	nr := report.NewReport{
		TeacherID:   acct.ID,
		TeacherName: acct.Name,
		ClassLabel:  acct.ClassLabel,
		MonthName:   meta.Month.Name(),
		Year:        meta.Month.Year,
		Matrix:      report.BuildSheetMatrix(meta, recap),
	}
	if err = nr.Validate(api.deps.Validate); err != nil {
		return err
	}

	rep, err := api.deps.ReportSvc.Submit(nr)
	if err != nil {
		return errors.Wrap(err, "submitting report")
	}
	return ctx.JSON(http.StatusCreated, rep)
}

func (api *reportApi) query(ctx echo.Context) error {
	reports, err := api.deps.ReportSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying reports")
	}
	if reports == nil {
		reports = []report.AdminReport{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	rep, err := api.deps.ReportSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding report by ID")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) destroy(ctx echo.Context) error {
	if err := api.deps.ReportSvc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting report")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *reportApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.deps.ReportSvc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting reports")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type SubmitReportRequest struct {
	Month string `json:"month"` // YYYY-MM
}
