package sqldb

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema mirrors db/migrations/0001_init for the embedded backend.
// Column names are quoted to preserve their case across engines.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS invoices (
		"InvoiceId" TEXT PRIMARY KEY,
		"VendorName" TEXT,
		"InvoiceDate" TEXT,
		"BillingAddressRecipient" TEXT,
		"ShippingAddress" TEXT,
		"SubTotal" REAL,
		"ShippingCost" REAL,
		"InvoiceTotal" REAL
	)`,
	`CREATE TABLE IF NOT EXISTS confidences (
		"InvoiceId" TEXT PRIMARY KEY REFERENCES invoices("InvoiceId") ON DELETE CASCADE,
		"VendorName" REAL,
		"InvoiceDate" REAL,
		"BillingAddressRecipient" REAL,
		"ShippingAddress" REAL,
		"SubTotal" REAL,
		"ShippingCost" REAL,
		"InvoiceTotal" REAL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		"InvoiceId" TEXT NOT NULL REFERENCES invoices("InvoiceId") ON DELETE CASCADE,
		"Description" TEXT,
		"Name" TEXT,
		"Quantity" REAL,
		"UnitPrice" REAL,
		"Amount" REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_vendor ON invoices("VendorName")`,
	`CREATE INDEX IF NOT EXISTS idx_items_invoice ON items("InvoiceId")`,
}

// EnsureSchema creates the invoice tables if they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
