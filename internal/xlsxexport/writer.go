// Package xlsxexport renders vendor invoice reports as Excel workbooks.
package xlsxexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"invparser/internal/domain"
)

const (
	invoiceSheet = "Invoices"
	itemSheet    = "Line Items"
)

var invoiceColumns = []string{
	"Invoice ID",
	"Vendor",
	"Invoice Date",
	"Billing Recipient",
	"Shipping Address",
	"Sub Total",
	"Shipping Cost",
	"Invoice Total",
	"Line Item Count",
}

var itemColumns = []string{
	"Invoice ID",
	"Description",
	"Name",
	"Quantity",
	"Unit Price",
	"Amount",
}

// VendorReport builds a two-sheet workbook (invoices plus their line items)
// for one vendor and returns the serialized xlsx bytes.
func VendorReport(invoices []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, fmt.Errorf("renaming invoice sheet: %w", err)
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, fmt.Errorf("creating item sheet: %w", err)
	}

	if err := writeRow(f, invoiceSheet, 1, headerCells(invoiceColumns)); err != nil {
		return nil, err
	}
	if err := writeRow(f, itemSheet, 1, headerCells(itemColumns)); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, inv := range invoices {
		cells := []interface{}{
			inv.InvoiceId,
			strCell(inv.VendorName),
			strCell(inv.InvoiceDate),
			strCell(inv.BillingAddressRecipient),
			strCell(inv.ShippingAddress),
			floatCell(inv.SubTotal),
			floatCell(inv.ShippingCost),
			floatCell(inv.InvoiceTotal),
			len(inv.Items),
		}
		if err := writeRow(f, invoiceSheet, i+2, cells); err != nil {
			return nil, err
		}

		for _, item := range inv.Items {
			itemCells := []interface{}{
				inv.InvoiceId,
				strCell(item.Description),
				strCell(item.Name),
				floatCell(item.Quantity),
				floatCell(item.UnitPrice),
				floatCell(item.Amount),
			}
			if err := writeRow(f, itemSheet, itemRow, itemCells); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func headerCells(columns []string) []interface{} {
	cells := make([]interface{}, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	return cells
}

func strCell(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
