package port

import (
	"context"

	"invparser/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
//
// Save is an upsert keyed by InvoiceId: it inserts the invoice with its
// confidence row and item set, or fully replaces all three when the id
// already exists. The whole operation is atomic; a reader never observes an
// invoice with a missing confidence row or a partially written item list.
type InvoiceRepository interface {
	Save(ctx context.Context, inv *domain.Invoice) (string, error)
	GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListByVendor(ctx context.Context, vendorName string) ([]domain.Invoice, error)
	Delete(ctx context.Context, invoiceID string) error
}
