package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core/mentor"
)

type mentorApi struct {
	svc *mentor.Service
}

func registerMentorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *mentor.Service) {
	api := mentorApi{svc: svc}

	mg := g.Group("/mentors", jwt)
	mg.GET("", api.query)
	mg.POST("", api.create, adminMiddleware())
	mg.GET("/:id", api.retrieve)
	mg.PUT("/:id", api.update, adminMiddleware())
	mg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *mentorApi) create(ctx echo.Context) error {
	var data mentor.NewMentor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMentor")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	mnt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating mentor")
	}
	return ctx.JSON(http.StatusCreated, mnt)
}

func (api *mentorApi) query(ctx echo.Context) error {
	mentors, err := api.svc.Query(ctx.Request().Context(), ctx.QueryParam("school_id"))
	if err != nil {
		return errors.Wrap(err, "querying mentors")
	}
	if mentors == nil {
		mentors = []mentor.Mentor{}
	}
	return ctx.JSON(http.StatusOK, mentors)
}

func (api *mentorApi) retrieve(ctx echo.Context) error {
	mnt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == mentor.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding mentor by ID")
	}
	return ctx.JSON(http.StatusOK, mnt)
}

func (api *mentorApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == mentor.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding mentor by ID")
	}

	var data mentor.UpdateMentor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMentor")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	mnt, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating mentor")
	}
	return ctx.JSON(http.StatusOK, mnt)
}

func (api *mentorApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting mentor")
	}
	return ctx.NoContent(http.StatusNoContent)
}
