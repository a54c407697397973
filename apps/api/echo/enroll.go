package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core/enroll"
)

type enrollApi struct {
	svc *enroll.Service
}

func registerEnrollAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *enroll.Service) {
	api := enrollApi{svc: svc}

	eg := g.Group("/enrollment", jwt)
	eg.GET("/current", api.current)
	eg.POST("/accept", api.accept)
	eg.GET("/agreement", api.agreement)
	eg.GET("/list", api.list, adminMiddleware())
	eg.GET("/stats", api.stats, adminMiddleware())
}

// current returns the caller's enrollment for the school year the enrollment
// window points at today.
func (api *enrollApi) current(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	enr, err := api.svc.Current(ctx.Request().Context(), claims.Subject, time.Now())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

// accept resolves the caller's identity first; nothing is written when
// resolution fails.
func (api *enrollApi) accept(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data enroll.AcceptEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AcceptEnrollment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ident, err := api.svc.ResolveIdentity(ctx.Request().Context(), claims.Subject, data.ProgramID, claims.EnrollClaims())
	if err != nil {
		return err
	}

	agreementText := data.AgreementText
	if agreementText == "" {
		agreementText = api.svc.AgreementText()
	}

	schoolYear := enroll.EnrollmentWindowYear(time.Now())
	enr, alreadyAccepted, err := api.svc.Accept(ctx.Request().Context(), claims.Subject, schoolYear, ident, agreementText)
	if err != nil {
		return err
	}

	code := http.StatusCreated
	if alreadyAccepted {
		code = http.StatusOK
	}
	return ctx.JSON(code, AcceptEnrollmentResponse{
		Enrollment:      enr,
		AlreadyAccepted: alreadyAccepted,
	})
}

func (api *enrollApi) agreement(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, AgreementResponse{
		SchoolYear:    enroll.EnrollmentWindowYear(time.Now()),
		AgreementText: api.svc.AgreementText(),
	})
}

func (api *enrollApi) list(ctx echo.Context) error {
	filter := new(enroll.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []enroll.Enrollment{})
	}
	if err := filter.Validate(); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, "user_id", "school_id", "program_id", "mentor_id", "school_year", "is_active", "created_at", "updated_at")

	enrollments, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrollments == nil {
		enrollments = []enroll.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *enrollApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context(), time.Now())
	if err != nil {
		return errors.Wrap(err, "computing enrollment stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

type (
	AcceptEnrollmentResponse struct {
		Enrollment      enroll.Enrollment `json:"enrollment"`
		AlreadyAccepted bool              `json:"already_accepted"`
	}

	AgreementResponse struct {
		SchoolYear    string `json:"school_year"`
		AgreementText string `json:"agreement_text"`
	}
)
