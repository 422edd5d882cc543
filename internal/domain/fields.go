package domain

// InvoiceField names one of the known scalar fields on an invoice.
type InvoiceField string

const (
	FieldInvoiceId               InvoiceField = "InvoiceId"
	FieldVendorName              InvoiceField = "VendorName"
	FieldInvoiceDate             InvoiceField = "InvoiceDate"
	FieldBillingAddressRecipient InvoiceField = "BillingAddressRecipient"
	FieldShippingAddress         InvoiceField = "ShippingAddress"
	FieldSubTotal                InvoiceField = "SubTotal"
	FieldShippingCost            InvoiceField = "ShippingCost"
	FieldInvoiceTotal            InvoiceField = "InvoiceTotal"
	FieldItems                   InvoiceField = "Items"
)

// MoneyFields are the fields whose extracted values are currency strings
// that must be parsed into floats. Normalization parses these with the
// amount cleaner; all other scalar fields are stored as text.
var MoneyFields = map[InvoiceField]bool{
	FieldSubTotal:     true,
	FieldShippingCost: true,
	FieldInvoiceTotal: true,
}

// KnownFields maps recognized extraction field names to their typed field.
// Normalization drops (and logs) anything not listed here rather than
// storing arbitrary keys.
var KnownFields = map[string]InvoiceField{
	string(FieldInvoiceId):               FieldInvoiceId,
	string(FieldVendorName):              FieldVendorName,
	string(FieldInvoiceDate):             FieldInvoiceDate,
	string(FieldBillingAddressRecipient): FieldBillingAddressRecipient,
	string(FieldShippingAddress):         FieldShippingAddress,
	string(FieldSubTotal):                FieldSubTotal,
	string(FieldShippingCost):            FieldShippingCost,
	string(FieldInvoiceTotal):            FieldInvoiceTotal,
	string(FieldItems):                   FieldItems,
}

// ItemField names one of the known fields on a line item.
type ItemField string

const (
	ItemFieldDescription ItemField = "Description"
	ItemFieldName        ItemField = "Name"
	ItemFieldQuantity    ItemField = "Quantity"
	ItemFieldUnitPrice   ItemField = "UnitPrice"
	ItemFieldAmount      ItemField = "Amount"
)

// KnownItemFields maps recognized line-item field names to their typed field.
var KnownItemFields = map[string]ItemField{
	string(ItemFieldDescription): ItemFieldDescription,
	string(ItemFieldName):        ItemFieldName,
	string(ItemFieldQuantity):    ItemFieldQuantity,
	string(ItemFieldUnitPrice):   ItemFieldUnitPrice,
	string(ItemFieldAmount):      ItemFieldAmount,
}
