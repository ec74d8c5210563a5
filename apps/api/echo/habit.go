package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/student"
)

type habitApi struct {
	deps ServerDeps
}

func registerHabitAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := habitApi{deps: deps}

	hg := g.Group("/habits", jwt)
	hg.GET("", api.queryHabits)

	rg := hg.Group("/records", teacherMiddleware())
	rg.POST("", api.upsert)
	rg.GET("", api.query)
}

// checkOwnership hides other teachers' students behind a 404.
func (api *habitApi) checkOwnership(ctx echo.Context, studentID string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	std, err := api.deps.StudentSvc.GetByID(studentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	if std.TeacherID != claims.Subject {
		return errHttpNotFound
	}
	return nil
}

// Handlers

// queryHabits exposes the fixed habit list and the rating scale for frontends.
func (api *habitApi) queryHabits(ctx echo.Context) error {
	scale := make([]RatingLabel, 0, int(habit.RatingWellAccustomed))
	for r := habit.RatingVeryUnaccustomed; r <= habit.RatingWellAccustomed; r++ {
		scale = append(scale, RatingLabel{Value: int(r), Label: r.Label()})
	}
	return ctx.JSON(http.StatusOK, HabitsResponse{Habits: habit.Names, Ratings: scale})
}

func (api *habitApi) upsert(ctx echo.Context) error {
	var data habit.RecordInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordInput")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := api.checkOwnership(ctx, data.StudentID); err != nil {
		return err
	}

	rec, err := api.deps.HabitSvc.Upsert(data)
	if err != nil {
		return errors.Wrap(err, "upserting habit record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *habitApi) query(ctx echo.Context) error {
	studentID := ctx.QueryParam("student_id")
	if studentID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "required"})
	}
	if err := api.checkOwnership(ctx, studentID); err != nil {
		return err
	}

	if date := core.CleanString(ctx.QueryParam("date")); date != "" {
		rec, err := api.deps.HabitSvc.GetByStudentDate(studentID, date)
		if err != nil {
			return errors.Wrap(err, "finding habit record")
		}
		return ctx.JSON(http.StatusOK, []habit.Record{rec})
	}

	recs, err := api.deps.HabitSvc.QueryByStudents(studentID)
	if err != nil {
		return errors.Wrap(err, "querying habit records")
	}
	if recs == nil {
		recs = []habit.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

type (
	RatingLabel struct {
		Value int    `json:"value"`
		Label string `json:"label"`
	}

	HabitsResponse struct {
		Habits  []string      `json:"habits"`
		Ratings []RatingLabel `json:"ratings"`
	}
)
