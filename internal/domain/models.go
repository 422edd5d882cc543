package domain

// Invoice represents one parsed invoice document. Scalar fields are pointers
// because extraction may fail per field; a nil value is stored as NULL.
// InvoiceDate stays a string to tolerate the varied formats the extraction
// service produces.
type Invoice struct {
	InvoiceId               string   `db:"InvoiceId" json:"InvoiceId"`
	VendorName              *string  `db:"VendorName" json:"VendorName"`
	InvoiceDate             *string  `db:"InvoiceDate" json:"InvoiceDate"`
	BillingAddressRecipient *string  `db:"BillingAddressRecipient" json:"BillingAddressRecipient"`
	ShippingAddress         *string  `db:"ShippingAddress" json:"ShippingAddress"`
	SubTotal                *float64 `db:"SubTotal" json:"SubTotal"`
	ShippingCost            *float64 `db:"ShippingCost" json:"ShippingCost"`
	InvoiceTotal            *float64 `db:"InvoiceTotal" json:"InvoiceTotal"`

	// Confidence and Items are loaded alongside the invoice row; an invoice
	// returned by the repository is never partially populated.
	Confidence *Confidence `db:"-" json:"-"`
	Items      []Item      `db:"-" json:"Items"`
}

// Confidence mirrors Invoice's scalar fields with the extraction service's
// per-field certainty in [0,1]. It shares its primary key with the owning
// invoice and cannot exist without it.
type Confidence struct {
	InvoiceId               string   `db:"InvoiceId" json:"-"`
	VendorName              *float64 `db:"VendorName" json:"VendorName"`
	InvoiceDate             *float64 `db:"InvoiceDate" json:"InvoiceDate"`
	BillingAddressRecipient *float64 `db:"BillingAddressRecipient" json:"BillingAddressRecipient"`
	ShippingAddress         *float64 `db:"ShippingAddress" json:"ShippingAddress"`
	SubTotal                *float64 `db:"SubTotal" json:"SubTotal"`
	ShippingCost            *float64 `db:"ShippingCost" json:"ShippingCost"`
	InvoiceTotal            *float64 `db:"InvoiceTotal" json:"InvoiceTotal"`
}

// Item represents one line item on an invoice. Amount is whatever the
// extraction service reported; the system does not enforce
// Amount == Quantity * UnitPrice.
type Item struct {
	ID          int64    `db:"id" json:"id"`
	InvoiceId   string   `db:"InvoiceId" json:"-"`
	Description *string  `db:"Description" json:"Description"`
	Name        *string  `db:"Name" json:"Name"`
	Quantity    *float64 `db:"Quantity" json:"Quantity"`
	UnitPrice   *float64 `db:"UnitPrice" json:"UnitPrice"`
	Amount      *float64 `db:"Amount" json:"Amount"`
}
