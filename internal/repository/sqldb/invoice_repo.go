package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"invparser/internal/domain"
	"invparser/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a SQL-backed InvoiceRepository. It works against
// any backend produced by NewDB; queries are written with ? placeholders and
// rebound per driver.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

const upsertInvoiceQuery = `INSERT INTO invoices (
	"InvoiceId", "VendorName", "InvoiceDate", "BillingAddressRecipient",
	"ShippingAddress", "SubTotal", "ShippingCost", "InvoiceTotal"
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT ("InvoiceId") DO UPDATE SET
	"VendorName" = excluded."VendorName",
	"InvoiceDate" = excluded."InvoiceDate",
	"BillingAddressRecipient" = excluded."BillingAddressRecipient",
	"ShippingAddress" = excluded."ShippingAddress",
	"SubTotal" = excluded."SubTotal",
	"ShippingCost" = excluded."ShippingCost",
	"InvoiceTotal" = excluded."InvoiceTotal"`

const upsertConfidenceQuery = `INSERT INTO confidences (
	"InvoiceId", "VendorName", "InvoiceDate", "BillingAddressRecipient",
	"ShippingAddress", "SubTotal", "ShippingCost", "InvoiceTotal"
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT ("InvoiceId") DO UPDATE SET
	"VendorName" = excluded."VendorName",
	"InvoiceDate" = excluded."InvoiceDate",
	"BillingAddressRecipient" = excluded."BillingAddressRecipient",
	"ShippingAddress" = excluded."ShippingAddress",
	"SubTotal" = excluded."SubTotal",
	"ShippingCost" = excluded."ShippingCost",
	"InvoiceTotal" = excluded."InvoiceTotal"`

const insertItemQuery = `INSERT INTO items (
	"InvoiceId", "Description", "Name", "Quantity", "UnitPrice", "Amount"
) VALUES (?, ?, ?, ?, ?, ?)`

// Save inserts or fully replaces an invoice with its confidence row and item
// set in a single transaction. The item set is replaced wholesale
// (delete-all-then-insert, not merge); any failure rolls back everything.
func (r *invoiceRepo) Save(ctx context.Context, inv *domain.Invoice) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("invoiceRepo.Save begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, r.db.Rebind(upsertInvoiceQuery),
		inv.InvoiceId, inv.VendorName, inv.InvoiceDate, inv.BillingAddressRecipient,
		inv.ShippingAddress, inv.SubTotal, inv.ShippingCost, inv.InvoiceTotal)
	if err != nil {
		return "", fmt.Errorf("invoiceRepo.Save invoice: %w", err)
	}

	// Every invoice carries a confidence row, even when the extraction
	// service reported no per-field scores.
	conf := inv.Confidence
	if conf == nil {
		conf = &domain.Confidence{}
	}
	_, err = tx.ExecContext(ctx, r.db.Rebind(upsertConfidenceQuery),
		inv.InvoiceId, conf.VendorName, conf.InvoiceDate, conf.BillingAddressRecipient,
		conf.ShippingAddress, conf.SubTotal, conf.ShippingCost, conf.InvoiceTotal)
	if err != nil {
		return "", fmt.Errorf("invoiceRepo.Save confidence: %w", err)
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM items WHERE "InvoiceId" = ?`), inv.InvoiceId)
	if err != nil {
		return "", fmt.Errorf("invoiceRepo.Save clearing items: %w", err)
	}
	for i := range inv.Items {
		it := &inv.Items[i]
		_, err = tx.ExecContext(ctx, r.db.Rebind(insertItemQuery),
			inv.InvoiceId, it.Description, it.Name, it.Quantity, it.UnitPrice, it.Amount)
		if err != nil {
			return "", fmt.Errorf("invoiceRepo.Save item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("invoiceRepo.Save commit: %w", err)
	}
	return inv.InvoiceId, nil
}

// GetByID returns the invoice with its confidence and items populated, or
// domain.ErrInvoiceNotFound.
func (r *invoiceRepo) GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		r.db.Rebind(`SELECT * FROM invoices WHERE "InvoiceId" = ?`), invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	if err := r.loadDependents(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByVendor returns all invoices whose vendor matches exactly
// (case-sensitive), fully populated, ordered by invoice date ascending.
// No matches is an empty slice, not an error.
func (r *invoiceRepo) ListByVendor(ctx context.Context, vendorName string) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	err := r.db.SelectContext(ctx, &invoices,
		r.db.Rebind(`SELECT * FROM invoices WHERE "VendorName" = ? ORDER BY "InvoiceDate" ASC`),
		vendorName)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByVendor: %w", err)
	}
	for i := range invoices {
		if err := r.loadDependents(ctx, &invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// Delete removes the invoice and cascades to its confidence and items in one
// transaction.
func (r *invoiceRepo) Delete(ctx context.Context, invoiceID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children go first so the delete works even when the backend has
	// foreign keys enforced without cascade.
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM items WHERE "InvoiceId" = ?`), invoiceID); err != nil {
		return fmt.Errorf("invoiceRepo.Delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM confidences WHERE "InvoiceId" = ?`), invoiceID); err != nil {
		return fmt.Errorf("invoiceRepo.Delete confidence: %w", err)
	}
	result, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM invoices WHERE "InvoiceId" = ?`), invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete invoice: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Delete commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) loadDependents(ctx context.Context, inv *domain.Invoice) error {
	var conf domain.Confidence
	err := r.db.GetContext(ctx, &conf,
		r.db.Rebind(`SELECT * FROM confidences WHERE "InvoiceId" = ?`), inv.InvoiceId)
	switch {
	case err == nil:
		inv.Confidence = &conf
	case errors.Is(err, sql.ErrNoRows):
		inv.Confidence = nil
	default:
		return fmt.Errorf("invoiceRepo loading confidence: %w", err)
	}

	items := []domain.Item{}
	err = r.db.SelectContext(ctx, &items,
		r.db.Rebind(`SELECT * FROM items WHERE "InvoiceId" = ? ORDER BY id ASC`), inv.InvoiceId)
	if err != nil {
		return fmt.Errorf("invoiceRepo loading items: %w", err)
	}
	inv.Items = items
	return nil
}
