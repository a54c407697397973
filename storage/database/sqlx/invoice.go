package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/invoice"
)

type invoiceRepository struct {
	db *sqlx.DB
}

var _ invoice.Repository = (*invoiceRepository)(nil) // interface compliance check

func NewInvoiceRepository(db *sqlx.DB) *invoiceRepository {
	return &invoiceRepository{db: db}
}

func (repo invoiceRepository) CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	inv.ID = uuid.New().String()
	query := `INSERT INTO "invoice" (id, user_id, school_id, school_year, amount_cents, description, status, due_date, paid_at, created_at, updated_at)
VALUES (:id, :user_id, :school_id, :school_year, :amount_cents, :description, :status, :due_date, :paid_at, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, inv); err != nil {
		return invoice.Invoice{}, errors.Wrap(err, "inserting invoice")
	}
	return inv, nil
}

func (repo invoiceRepository) GetInvoiceByID(ctx context.Context, id string) (invoice.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	var inv invoice.Invoice
	if err := repo.db.GetContext(ctx, &inv, `SELECT * FROM "invoice" WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return invoice.Invoice{}, invoice.ErrNotFound
		}
		return invoice.Invoice{}, errors.Wrap(err, "finding invoice")
	}
	return inv, nil
}

func (repo invoiceRepository) QueryInvoices(ctx context.Context, filter *invoice.QueryFilter, ordering []core.DBOrdering) ([]invoice.Invoice, error) {
	query := `SELECT * FROM "invoice"`
	var (
		conds []string
		args  []interface{}
	)

	if filter != nil {
		if filter.UserID != "" {
			conds = append(conds, "user_id = ?")
			args = append(args, filter.UserID)
		}
		if filter.SchoolID != "" {
			conds = append(conds, "school_id = ?")
			args = append(args, filter.SchoolID)
		}
		if filter.SchoolYear != "" {
			conds = append(conds, "school_year = ?")
			args = append(args, filter.SchoolYear)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		query += " ORDER BY created_at"
	}

	var invoices []invoice.Invoice
	if err := repo.db.SelectContext(ctx, &invoices, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying invoices")
	}
	return invoices, nil
}

func (repo invoiceRepository) UpdateInvoiceStatus(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	query := `UPDATE "invoice" SET status = :status, paid_at = :paid_at, updated_at = :updated_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return invoice.Invoice{}, errors.Wrap(err, "updating invoice")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	return inv, nil
}
