package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"invparser/internal/config"
	"invparser/internal/domain"
	"invparser/internal/extractor"
	"invparser/internal/port"
	"invparser/internal/xlsxexport"
)

// ExtractAndSaveInput is the DTO for the upload-extract-save flow.
type ExtractAndSaveInput struct {
	FileName    string
	ContentType string
	FileBytes   []byte
}

// ExtractionResponse is the JSON shape returned after a successful
// extraction: overall confidence, the saved invoice (items included), and
// the per-field confidence scores.
type ExtractionResponse struct {
	Confidence     float64            `json:"confidence"`
	Data           *domain.Invoice    `json:"data"`
	DataConfidence *domain.Confidence `json:"dataConfidence"`
	PredictionTime float64            `json:"predictionTime"`
}

// VendorInvoices summarizes all invoices for one vendor.
type VendorInvoices struct {
	VendorName    string           `json:"VendorName"`
	TotalInvoices int              `json:"TotalInvoices"`
	Invoices      []domain.Invoice `json:"invoices"`
}

// InvoiceService defines the invoice extraction and retrieval contract.
type InvoiceService interface {
	ExtractAndSave(ctx context.Context, input *ExtractAndSaveInput) (*ExtractionResponse, error)
	GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListByVendor(ctx context.Context, vendorName string) (*VendorInvoices, error)
	ExportVendorReport(ctx context.Context, vendorName string) ([]byte, error)
	Delete(ctx context.Context, invoiceID string) error
}

type invoiceService struct {
	repo      port.InvoiceRepository
	extractor port.InvoiceExtractor
	storage   port.ObjectStorage
	extCfg    *config.ExtractorConfig
	s3Cfg     *config.S3Config
}

// NewInvoiceService creates an InvoiceService implementation.
func NewInvoiceService(
	repo port.InvoiceRepository,
	invExtractor port.InvoiceExtractor,
	storage port.ObjectStorage,
	extCfg *config.ExtractorConfig,
	s3Cfg *config.S3Config,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		extractor: invExtractor,
		storage:   storage,
		extCfg:    extCfg,
		s3Cfg:     s3Cfg,
	}
}

// ExtractAndSave validates the upload, archives the raw PDF, runs
// extraction, normalizes the result, and upserts the invoice atomically.
func (s *invoiceService) ExtractAndSave(ctx context.Context, input *ExtractAndSaveInput) (*ExtractionResponse, error) {
	if err := s.validateUpload(input); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("invoices/%s/%s.pdf", time.Now().UTC().Format("2006-01-02"), uuid.New())
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.FileBytes),
		ContentType: input.ContentType,
		Size:        int64(len(input.FileBytes)),
	})
	if err != nil {
		log.Printf("archiving uploaded document failed: %v", err)
		return nil, domain.ErrUploadFailed
	}

	start := time.Now()
	raw, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   input.FileBytes,
		ContentType: input.ContentType,
	})
	if err != nil {
		log.Printf("document extraction failed: %v", err)
		return nil, domain.ErrExtractionFailed
	}
	predictionTime := time.Since(start).Seconds()

	overall, err := s.checkDocumentConfidence(raw)
	if err != nil {
		return nil, err
	}

	inv := extractor.Normalize(raw)
	if inv.InvoiceId == "" {
		// extraction did not find an invoice number; assign one so the
		// row is addressable
		inv.InvoiceId = "INV-" + uuid.NewString()
		log.Printf("extraction produced no InvoiceId, assigned %s", inv.InvoiceId)
	}

	if _, err := s.repo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("saving extraction: %w", err)
	}

	return &ExtractionResponse{
		Confidence:     overall,
		Data:           inv,
		DataConfidence: inv.Confidence,
		PredictionTime: predictionTime,
	}, nil
}

func (s *invoiceService) GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListByVendor returns the vendor summary. No matches yields an empty
// summary with the "Unknown Vendor" label, not an error.
func (s *invoiceService) ListByVendor(ctx context.Context, vendorName string) (*VendorInvoices, error) {
	invoices, err := s.repo.ListByVendor(ctx, vendorName)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return &VendorInvoices{
			VendorName:    "Unknown Vendor",
			TotalInvoices: 0,
			Invoices:      []domain.Invoice{},
		}, nil
	}
	return &VendorInvoices{
		VendorName:    vendorName,
		TotalInvoices: len(invoices),
		Invoices:      invoices,
	}, nil
}

func (s *invoiceService) ExportVendorReport(ctx context.Context, vendorName string) ([]byte, error) {
	invoices, err := s.repo.ListByVendor(ctx, vendorName)
	if err != nil {
		return nil, err
	}
	report, err := xlsxexport.VendorReport(invoices)
	if err != nil {
		return nil, fmt.Errorf("building vendor report: %w", err)
	}
	return report, nil
}

func (s *invoiceService) Delete(ctx context.Context, invoiceID string) error {
	return s.repo.Delete(ctx, invoiceID)
}

func (s *invoiceService) validateUpload(input *ExtractAndSaveInput) error {
	isPDFType := input.ContentType == "application/pdf"
	isPDFName := strings.HasSuffix(strings.ToLower(input.FileName), ".pdf")
	if !isPDFType && !isPDFName {
		return domain.ErrUnsupportedFileType
	}
	if len(input.FileBytes) == 0 {
		return domain.ErrUnsupportedFileType
	}
	maxBytes := s.extCfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && int64(len(input.FileBytes)) > maxBytes {
		return domain.ErrFileTooLarge
	}
	return nil
}

// checkDocumentConfidence rejects documents the extraction service did not
// classify as an invoice with sufficient certainty. The highest detected
// type confidence doubles as the overall extraction confidence; documents
// without classification output pass with full confidence.
func (s *invoiceService) checkDocumentConfidence(raw *port.RawExtraction) (float64, error) {
	if len(raw.DocumentTypes) == 0 {
		return 1, nil
	}
	best := 0.0
	for _, dt := range raw.DocumentTypes {
		if dt.Confidence > best {
			best = dt.Confidence
		}
	}
	if best < s.extCfg.MinDocConf {
		return 0, domain.ErrLowDocumentConfidence
	}
	return best, nil
}
