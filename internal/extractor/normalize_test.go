package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invparser/internal/domain"
	"invparser/internal/extractor"
	"invparser/internal/port"
)

func TestNormalize_TypedFields(t *testing.T) {
	raw := &port.RawExtraction{
		Fields: map[string]string{
			"InvoiceId":               "INV-2024-001",
			"VendorName":              "Acme Corporation",
			"InvoiceDate":             "Mar 06 2012",
			"BillingAddressRecipient": "Jane Doe",
			"ShippingAddress":         "1 Main St",
			"SubTotal":                "$1,050.00",
			"ShippingCost":            "0",
			"InvoiceTotal":            "$1,300.00",
		},
		Confidences: map[string]float64{
			"VendorName":   0.98,
			"InvoiceTotal": 0.91,
		},
		Items: []map[string]string{
			{"Name": "Widget-A", "Quantity": "10", "UnitPrice": "100.00", "Amount": "1,000.00"},
			{"Name": "Gadget-B", "Description": "blue", "Quantity": "5", "UnitPrice": "$50.00", "Amount": "250.00"},
		},
	}

	inv := extractor.Normalize(raw)

	assert.Equal(t, "INV-2024-001", inv.InvoiceId)
	require.NotNil(t, inv.VendorName)
	assert.Equal(t, "Acme Corporation", *inv.VendorName)
	require.NotNil(t, inv.InvoiceDate)
	assert.Equal(t, "2012-03-06T00:00:00Z", *inv.InvoiceDate)
	require.NotNil(t, inv.SubTotal)
	assert.Equal(t, 1050.00, *inv.SubTotal)
	require.NotNil(t, inv.ShippingCost)
	assert.Equal(t, 0.0, *inv.ShippingCost)
	require.NotNil(t, inv.InvoiceTotal)
	assert.Equal(t, 1300.00, *inv.InvoiceTotal)

	require.NotNil(t, inv.Confidence)
	assert.Equal(t, 0.98, *inv.Confidence.VendorName)
	assert.Equal(t, 0.91, *inv.Confidence.InvoiceTotal)
	assert.Nil(t, inv.Confidence.SubTotal)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Widget-A", *inv.Items[0].Name)
	assert.Equal(t, 1000.00, *inv.Items[0].Amount)
	assert.Equal(t, "blue", *inv.Items[1].Description)
	assert.Equal(t, 50.00, *inv.Items[1].UnitPrice)
}

func TestNormalize_DropsUnrecognizedFields(t *testing.T) {
	raw := &port.RawExtraction{
		Fields: map[string]string{
			"VendorName":    "Acme Corporation",
			"PurchaseOrder": "PO-1",
			"CustomerTaxId": "X",
		},
		Confidences: map[string]float64{
			"PurchaseOrder": 0.5,
		},
		Items: []map[string]string{
			{"Name": "Widget-A", "Sku": "W-A"},
		},
	}

	inv := extractor.Normalize(raw)

	require.NotNil(t, inv.VendorName)
	assert.Equal(t, "Acme Corporation", *inv.VendorName)
	assert.Empty(t, inv.InvoiceId)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widget-A", *inv.Items[0].Name)
	assert.Nil(t, inv.Items[0].Description)
}

func TestNormalize_MissingFieldsStayNil(t *testing.T) {
	inv := extractor.Normalize(&port.RawExtraction{
		Fields:      map[string]string{"InvoiceId": "INV-1"},
		Confidences: map[string]float64{},
	})

	assert.Equal(t, "INV-1", inv.InvoiceId)
	assert.Nil(t, inv.VendorName)
	assert.Nil(t, inv.SubTotal)
	assert.Nil(t, inv.ShippingCost)
	assert.Nil(t, inv.InvoiceTotal)
	require.NotNil(t, inv.Confidence)
	assert.Nil(t, inv.Confidence.VendorName)
	assert.Empty(t, inv.Items)
}

func TestNormalize_MoneyFieldsParsed(t *testing.T) {
	for field := range domain.MoneyFields {
		t.Run(string(field), func(t *testing.T) {
			inv := extractor.Normalize(&port.RawExtraction{
				Fields: map[string]string{string(field): "$1,234.50"},
			})

			var got *float64
			switch field {
			case domain.FieldSubTotal:
				got = inv.SubTotal
			case domain.FieldShippingCost:
				got = inv.ShippingCost
			case domain.FieldInvoiceTotal:
				got = inv.InvoiceTotal
			}
			require.NotNil(t, got)
			assert.Equal(t, 1234.50, *got)

			dropped := extractor.Normalize(&port.RawExtraction{
				Fields: map[string]string{string(field): "n/a"},
			})
			assert.Nil(t, dropped.SubTotal)
			assert.Nil(t, dropped.ShippingCost)
			assert.Nil(t, dropped.InvoiceTotal)
		})
	}
}

func TestNormalize_NonNumericAmountDropped(t *testing.T) {
	inv := extractor.Normalize(&port.RawExtraction{
		Fields: map[string]string{
			"InvoiceId":    "INV-1",
			"InvoiceTotal": "twelve dollars",
		},
	})
	assert.Nil(t, inv.InvoiceTotal)
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"month day year", "Mar 06 2012", "2012-03-06T00:00:00Z"},
		{"single digit day", "Mar 6 2012", "2012-03-06T00:00:00Z"},
		{"surrounding whitespace", " Mar 06 2012 ", "2012-03-06T00:00:00Z"},
		{"unparseable passes through", "03/06/2012", "03/06/2012"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractor.FormatDate(tc.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"dollar sign", "$58.11", 58.11, true},
		{"thousands separator", "4,293.55", 4293.55, true},
		{"both with spaces", " $1,300.00 ", 1300.00, true},
		{"plain number", "42", 42, true},
		{"empty", "", 0, false},
		{"not a number", "n/a", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractor.ParseAmount(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
