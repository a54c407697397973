package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/invoice"
)

type invoiceRepository struct {
	db *DB
}

var _ invoice.Repository = (*invoiceRepository)(nil) // interface compliance check

func NewInvoiceRepository(db *DB) *invoiceRepository {
	return &invoiceRepository{db: db}
}

func (repo *invoiceRepository) CreateInvoice(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	repo.db.invoice.Lock()
	defer repo.db.invoice.Unlock()

	inv.ID = uuid.New().String()
	repo.db.invoice.table[inv.ID] = &inv
	return inv, nil
}

func (repo *invoiceRepository) GetInvoiceByID(_ context.Context, id string) (invoice.Invoice, error) {
	repo.db.invoice.RLock()
	defer repo.db.invoice.RUnlock()

	if inv, ok := repo.db.invoice.table[id]; ok {
		return *inv, nil
	}
	return invoice.Invoice{}, invoice.ErrNotFound
}

func (repo *invoiceRepository) QueryInvoices(_ context.Context, filter *invoice.QueryFilter, _ []core.DBOrdering) ([]invoice.Invoice, error) {
	repo.db.invoice.RLock()
	defer repo.db.invoice.RUnlock()

	invoices := make([]invoice.Invoice, 0, len(repo.db.invoice.table))
	for _, inv := range repo.db.invoice.table {
		if filter != nil && !filter.IsEmpty() {
			if filter.UserID != "" && inv.UserID != filter.UserID {
				continue
			}
			if filter.SchoolID != "" && inv.SchoolID != filter.SchoolID {
				continue
			}
			if filter.SchoolYear != "" && inv.SchoolYear != filter.SchoolYear {
				continue
			}
			if filter.Status != "" && inv.Status != filter.Status {
				continue
			}
		}
		invoices = append(invoices, *inv)
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].CreatedAt.Before(invoices[j].CreatedAt) })
	return invoices, nil
}

func (repo *invoiceRepository) UpdateInvoiceStatus(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	repo.db.invoice.Lock()
	defer repo.db.invoice.Unlock()

	orig, ok := repo.db.invoice.table[inv.ID]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	orig.Status = inv.Status
	orig.PaidAt = inv.PaidAt
	orig.UpdatedAt = inv.UpdatedAt
	return *orig, nil
}
