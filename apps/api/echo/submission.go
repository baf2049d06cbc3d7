package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/submission"
)

type submissionApi struct {
	svc      submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc submission.Service, validate *validator.Validate) {
	api := submissionApi{svc: svc, validate: validate}

	// nested under the assignment being submitted to
	ag := g.Group("/assignments/:id/submissions", jwt)
	ag.POST("", api.submit)
	ag.GET("", api.queryByAssignment, teacherOrAdminMiddleware())

	// detail endpoints
	sg := g.Group("/submissions", jwt)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id/grade", api.grade, teacherOrAdminMiddleware())
}

// Handlers

func (api *submissionApi) submit(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.Submit(ctx.Request().Context(), prin, intParam(ctx, "id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) queryByAssignment(ctx echo.Context) error {
	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	submissions, err := api.svc.QueryByAssignment(ctx.Request().Context(), prin, intParam(ctx, "id"))
	if err != nil {
		return err
	}
	if submissions == nil {
		submissions = []submission.Detail{}
	}
	return ctx.JSON(http.StatusOK, submissions)
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
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

func (api *submissionApi) grade(ctx echo.Context) error {
	var data submission.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prin, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	detail, err := api.svc.Grade(ctx.Request().Context(), prin, intParam(ctx, "id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}
