package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/pembiasaan/core/student"
)

type studentApi struct {
	deps ServerDeps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{deps: deps}

	sg := g.Group("/students", jwt, teacherMiddleware())
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.POST("/import", api.importStudents)
	sg.DELETE("", api.destroyMultiple)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// getOwnedStudent resolves the :id student and hides other teachers' rosters
// behind a 404.
func (api *studentApi) getOwnedStudent(ctx echo.Context) (student.Student, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting context claims")
	}
	std, err := api.deps.StudentSvc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHttpNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	if std.TeacherID != claims.Subject {
		return student.Student{}, errHttpNotFound
	}
	return std, nil
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	students, err := api.deps.StudentSvc.QueryByTeacher(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data student.NewStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	data.TeacherID = claims.Subject
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	std, err := api.deps.StudentSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) importStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data ImportRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	res, err := api.deps.StudentSvc.BulkImport(claims.Subject, student.RowsFromTable(data.Rows))
	if err != nil {
		return errors.Wrap(err, "importing students")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) update(ctx echo.Context) error {
	std, err := api.getOwnedStudent(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	std, err = api.deps.StudentSvc.Update(std.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	std, err := api.getOwnedStudent(ctx)
	if err != nil {
		return err
	}
	if err = api.deps.StudentSvc.Delete(std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var query DestroyMultipleRequest
	if err = ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// unknown ids and other teachers' students are skipped
	owned := make([]string, 0, len(query.IDs))
	for _, id := range query.IDs {
		std, err := api.deps.StudentSvc.GetByID(id)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				continue
			}
			return errors.Wrap(err, "finding student by ID")
		}
		if std.TeacherID == claims.Subject {
			owned = append(owned, std.ID)
		}
	}
	if err = api.deps.StudentSvc.Delete(owned...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}
