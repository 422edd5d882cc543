package port

import "context"

// ExtractInput carries the raw document handed to the extraction service.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// DetectedDocumentType is the extraction service's classification of the
// uploaded document.
type DetectedDocumentType struct {
	DocumentType string
	Confidence   float64
}

// RawExtraction is the extraction service's output before normalization:
// field name to value, field name to confidence, and the ordered line items.
// Missing fields are simply absent from the maps.
type RawExtraction struct {
	Fields        map[string]string
	Confidences   map[string]float64
	Items         []map[string]string
	DocumentTypes []DetectedDocumentType
}

// InvoiceExtractor abstracts the external document-AI extraction service.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*RawExtraction, error)
}
