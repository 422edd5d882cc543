package extractor

import (
	"log"
	"strconv"
	"strings"
	"time"

	"invparser/internal/domain"
	"invparser/internal/port"
)

// Normalize converts a raw field/confidence extraction into the typed
// invoice record. Unrecognized field names are logged and dropped rather
// than stored; missing fields stay nil. Item order is preserved.
func Normalize(raw *port.RawExtraction) *domain.Invoice {
	inv := &domain.Invoice{
		Confidence: &domain.Confidence{},
		Items:      []domain.Item{},
	}

	for name, value := range raw.Fields {
		field, ok := domain.KnownFields[name]
		if !ok {
			log.Printf("normalize: dropping unrecognized field %q", name)
			continue
		}
		setScalarField(inv, field, value)
	}

	for name, score := range raw.Confidences {
		field, ok := domain.KnownFields[name]
		if !ok {
			log.Printf("normalize: dropping confidence for unrecognized field %q", name)
			continue
		}
		setConfidenceField(inv.Confidence, field, score)
	}

	for _, rawItem := range raw.Items {
		inv.Items = append(inv.Items, normalizeItem(rawItem))
	}

	return inv
}

func setScalarField(inv *domain.Invoice, field domain.InvoiceField, value string) {
	if domain.MoneyFields[field] {
		amount := amountPtr(field, value)
		switch field {
		case domain.FieldSubTotal:
			inv.SubTotal = amount
		case domain.FieldShippingCost:
			inv.ShippingCost = amount
		case domain.FieldInvoiceTotal:
			inv.InvoiceTotal = amount
		}
		return
	}

	switch field {
	case domain.FieldInvoiceId:
		inv.InvoiceId = strings.TrimSpace(value)
	case domain.FieldVendorName:
		inv.VendorName = strPtr(value)
	case domain.FieldInvoiceDate:
		inv.InvoiceDate = strPtr(FormatDate(value))
	case domain.FieldBillingAddressRecipient:
		inv.BillingAddressRecipient = strPtr(value)
	case domain.FieldShippingAddress:
		inv.ShippingAddress = strPtr(value)
	case domain.FieldItems:
		// items arrive through RawExtraction.Items, not the field map
	}
}

func setConfidenceField(conf *domain.Confidence, field domain.InvoiceField, score float64) {
	switch field {
	case domain.FieldVendorName:
		conf.VendorName = &score
	case domain.FieldInvoiceDate:
		conf.InvoiceDate = &score
	case domain.FieldBillingAddressRecipient:
		conf.BillingAddressRecipient = &score
	case domain.FieldShippingAddress:
		conf.ShippingAddress = &score
	case domain.FieldSubTotal:
		conf.SubTotal = &score
	case domain.FieldShippingCost:
		conf.ShippingCost = &score
	case domain.FieldInvoiceTotal:
		conf.InvoiceTotal = &score
	}
}

func normalizeItem(raw map[string]string) domain.Item {
	var item domain.Item
	for name, value := range raw {
		field, ok := domain.KnownItemFields[name]
		if !ok {
			log.Printf("normalize: dropping unrecognized item field %q", name)
			continue
		}
		switch field {
		case domain.ItemFieldDescription:
			item.Description = strPtr(value)
		case domain.ItemFieldName:
			item.Name = strPtr(value)
		case domain.ItemFieldQuantity:
			item.Quantity = itemAmountPtr(name, value)
		case domain.ItemFieldUnitPrice:
			item.UnitPrice = itemAmountPtr(name, value)
		case domain.ItemFieldAmount:
			item.Amount = itemAmountPtr(name, value)
		}
	}
	return item
}

// FormatDate converts dates like "Mar 06 2012" to RFC 3339 UTC. Anything
// else passes through unchanged; the invoice date column is deliberately
// untyped to tolerate varied extraction output.
func FormatDate(dateText string) string {
	trimmed := strings.TrimSpace(dateText)
	if trimmed == "" {
		return ""
	}
	t, err := time.Parse("Jan 2 2006", trimmed)
	if err != nil {
		return dateText
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseAmount strips currency decoration ("$1,300.00" -> 1300.00) and
// parses the remainder as a float. ok is false when the value is empty or
// not numeric.
func ParseAmount(value string) (amount float64, ok bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(value, "$", ""), ",", ""))
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func amountPtr(field domain.InvoiceField, value string) *float64 {
	amount, ok := ParseAmount(value)
	if !ok {
		if strings.TrimSpace(value) != "" {
			log.Printf("normalize: dropping non-numeric %s value %q", field, value)
		}
		return nil
	}
	return &amount
}

func itemAmountPtr(name, value string) *float64 {
	amount, ok := ParseAmount(value)
	if !ok {
		if strings.TrimSpace(value) != "" {
			log.Printf("normalize: dropping non-numeric item %s value %q", name, value)
		}
		return nil
	}
	return &amount
}

func strPtr(s string) *string {
	return &s
}
