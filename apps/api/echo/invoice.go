package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core/invoice"
	"github.com/leonsilipetar/cadenza/core/user"
)

type invoiceApi struct {
	svc    *invoice.Service
	usrSvc *user.Service
}

func registerInvoiceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *invoice.Service, usrSvc *user.Service) {
	api := invoiceApi{svc: svc, usrSvc: usrSvc}

	ig := g.Group("/invoices", jwt)
	ig.GET("", api.query)
	ig.POST("", api.create, adminMiddleware())
	ig.GET("/:id", api.retrieve)
	ig.POST("/:id/pay", api.pay, adminMiddleware())
	ig.POST("/:id/cancel", api.cancel, adminMiddleware())
}

func (api *invoiceApi) create(ctx echo.Context) error {
	var data invoice.NewInvoice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvoice")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	inv, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating invoice")
	}
	return ctx.JSON(http.StatusCreated, inv)
}

// query returns the caller's invoices; admins see all and may filter freely.
func (api *invoiceApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := new(invoice.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []invoice.Invoice{})
	}
	if !claims.IsAdmin {
		filter.UserID = claims.Subject
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, "user_id", "school_id", "school_year", "status", "amount_cents", "due_date", "created_at", "updated_at")

	invoices, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying invoices")
	}
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}
	return ctx.JSON(http.StatusOK, invoices)
}

func (api *invoiceApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	inv, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == invoice.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding invoice by ID")
	}
	if !claims.IsAdmin && inv.UserID != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *invoiceApi) pay(ctx echo.Context) error {
	inv, err := api.svc.MarkPaid(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *invoiceApi) cancel(ctx echo.Context) error {
	inv, err := api.svc.Cancel(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inv)
}
