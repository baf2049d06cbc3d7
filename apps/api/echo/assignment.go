package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/assignment"
)

type assignmentApi struct {
	svc      assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	// nested under the owning course
	cg := g.Group("/courses/:id/assignments", jwt)
	cg.POST("", api.create, teacherOrAdminMiddleware())
	cg.GET("", api.queryByCourse)

	// detail endpoints
	ag := g.Group("/assignments", jwt)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, teacherOrAdminMiddleware())
	ag.DELETE("/:id", api.destroy, teacherOrAdminMiddleware())
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	asg, err := api.svc.Create(ctx.Request().Context(), prin, intParam(ctx, "id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) queryByCourse(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.svc.QueryByCourse(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	detail, err := api.svc.GetByID(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	detail, err := api.svc.GetByID(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(detail.Assignment, api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Update(ctx.Request().Context(), prin, detail.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), prin, intParam(ctx, "id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
