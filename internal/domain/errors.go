package domain

import "errors"

var (
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed      = errors.New("document extraction failed")
	ErrLowDocumentConfidence = errors.New("document was not recognized as an invoice")
	ErrUploadFailed          = errors.New("file upload to storage failed")
)
