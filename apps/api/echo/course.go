package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/course"
)

var courseSortable = map[string]string{
	"name":       "c.name",
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
}

type courseApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.Service, validate *validator.Validate) {
	api := courseApi{svc: svc, validate: validate}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create, teacherOrAdminMiddleware())
	cg.GET("", api.query)
	cg.GET("/mine", api.queryMine)

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherOrAdminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())

	eg := dg.Group("/enrollments", teacherOrAdminMiddleware())
	eg.POST("", api.enroll)
	eg.GET("", api.queryEnrollments)
	eg.DELETE("/:studentID", api.unenroll)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	crs, err := api.svc.Create(ctx.Request().Context(), prin, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, courseSortable)

	courses, err := api.svc.Query(ctx.Request().Context(), prin, ordering.Orderings)
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) queryMine(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryMine(ctx.Request().Context(), prin)
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	crs, err := api.svc.GetByID(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	crs, err := api.svc.GetByID(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(crs, api.validate); err != nil {
		return err
	}

	crs, err = api.svc.Update(ctx.Request().Context(), prin, crs.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), prin, intParam(ctx, "id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	var data course.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	enr, err := api.svc.Enroll(ctx.Request().Context(), prin, intParam(ctx, "id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *courseApi) queryEnrollments(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	enrollments, err := api.svc.QueryEnrollments(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}
	if enrollments == nil {
		enrollments = []course.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	err = api.svc.Unenroll(ctx.Request().Context(), prin, intParam(ctx, "id"), ctx.Param("studentID"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
