package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invparser/internal/config"
	"invparser/internal/domain"
	"invparser/internal/port"
	"invparser/internal/service"
	"invparser/mocks"
)

func setupInvoiceService(t *testing.T) (service.InvoiceService, *mocks.MockInvoiceRepo, *mocks.MockInvoiceExtractor, *mocks.MockObjectStorage) {
	t.Helper()
	repo := new(mocks.MockInvoiceRepo)
	ext := new(mocks.MockInvoiceExtractor)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewInvoiceService(repo, ext, storage,
		&config.ExtractorConfig{Provider: "stub", MinDocConf: 0.9, MaxFileSizeMB: 10},
		&config.S3Config{Bucket: "test-bucket"},
	)
	return svc, repo, ext, storage
}

func pdfInput() *service.ExtractAndSaveInput {
	return &service.ExtractAndSaveInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4 test"),
	}
}

func goodExtraction() *port.RawExtraction {
	return &port.RawExtraction{
		Fields: map[string]string{
			"InvoiceId":  "INV-2024-001",
			"VendorName": "Acme Corporation",
		},
		Confidences: map[string]float64{
			"InvoiceId":  0.99,
			"VendorName": 0.98,
		},
		Items: []map[string]string{
			{"Name": "Widget-A", "Quantity": "10", "Amount": "1000.00"},
		},
		DocumentTypes: []port.DetectedDocumentType{
			{DocumentType: "INVOICE", Confidence: 0.97},
		},
	}
}

func TestExtractAndSave_Success(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{Location: "noop://k"}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(goodExtraction(), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return("INV-2024-001", nil)

	resp, err := svc.ExtractAndSave(context.Background(), pdfInput())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 0.97, resp.Confidence)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "INV-2024-001", resp.Data.InvoiceId)
	require.NotNil(t, resp.Data.VendorName)
	assert.Equal(t, "Acme Corporation", *resp.Data.VendorName)
	require.Len(t, resp.Data.Items, 1)
	require.NotNil(t, resp.DataConfidence)
	require.NotNil(t, resp.DataConfidence.VendorName)
	assert.Equal(t, 0.98, *resp.DataConfidence.VendorName)

	repo.AssertExpectations(t)
	ext.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestExtractAndSave_UnsupportedFileType(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	input := pdfInput()
	input.FileName = "invoice.docx"
	input.ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	resp, err := svc.ExtractAndSave(context.Background(), input)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExtractAndSave_EmptyFile(t *testing.T) {
	svc, _, _, _ := setupInvoiceService(t)

	input := pdfInput()
	input.FileBytes = nil

	_, err := svc.ExtractAndSave(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtractAndSave_FileTooLarge(t *testing.T) {
	svc, _, _, _ := setupInvoiceService(t)

	input := pdfInput()
	input.FileBytes = []byte(strings.Repeat("a", 11*1024*1024))

	_, err := svc.ExtractAndSave(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestExtractAndSave_UploadFailure(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("bucket unreachable"))

	_, err := svc.ExtractAndSave(context.Background(), pdfInput())
	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExtractAndSave_ExtractionFailure(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("service timeout"))

	_, err := svc.ExtractAndSave(context.Background(), pdfInput())
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExtractAndSave_LowDocumentConfidence(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	raw := goodExtraction()
	raw.DocumentTypes = []port.DetectedDocumentType{
		{DocumentType: "RECEIPT", Confidence: 0.6},
		{DocumentType: "INVOICE", Confidence: 0.3},
	}
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(raw, nil)

	_, err := svc.ExtractAndSave(context.Background(), pdfInput())
	assert.ErrorIs(t, err, domain.ErrLowDocumentConfidence)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExtractAndSave_NoClassificationPasses(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	raw := goodExtraction()
	raw.DocumentTypes = nil
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(raw, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return("INV-2024-001", nil)

	resp, err := svc.ExtractAndSave(context.Background(), pdfInput())
	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.Confidence)
}

func TestExtractAndSave_MissingInvoiceIdGetsGenerated(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	raw := goodExtraction()
	delete(raw.Fields, "InvoiceId")
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(raw, nil)

	var saved *domain.Invoice
	repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.Invoice)
	}).Return("generated", nil)

	resp, err := svc.ExtractAndSave(context.Background(), pdfInput())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, strings.HasPrefix(saved.InvoiceId, "INV-"))
	assert.Equal(t, saved.InvoiceId, resp.Data.InvoiceId)
}

func TestExtractAndSave_SaveFailurePropagates(t *testing.T) {
	svc, repo, ext, storage := setupInvoiceService(t)

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(goodExtraction(), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	_, err := svc.ExtractAndSave(context.Background(), pdfInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving extraction")
}

func TestGetByID_NotFound(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(t)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrInvoiceNotFound)

	inv, err := svc.GetByID(context.Background(), "missing")
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestListByVendor_KnownVendor(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(t)

	repo.On("ListByVendor", mock.Anything, "Acme Corporation").Return([]domain.Invoice{
		{InvoiceId: "INV-1"},
		{InvoiceId: "INV-2"},
	}, nil)

	summary, err := svc.ListByVendor(context.Background(), "Acme Corporation")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", summary.VendorName)
	assert.Equal(t, 2, summary.TotalInvoices)
	assert.Len(t, summary.Invoices, 2)
}

func TestListByVendor_NoMatches(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(t)

	repo.On("ListByVendor", mock.Anything, "Nobody Inc").Return([]domain.Invoice{}, nil)

	summary, err := svc.ListByVendor(context.Background(), "Nobody Inc")
	require.NoError(t, err)
	assert.Equal(t, "Unknown Vendor", summary.VendorName)
	assert.Equal(t, 0, summary.TotalInvoices)
	assert.NotNil(t, summary.Invoices)
	assert.Empty(t, summary.Invoices)
}

func TestDelete_Propagates(t *testing.T) {
	svc, repo, _, _ := setupInvoiceService(t)

	repo.On("Delete", mock.Anything, "INV-1").Return(domain.ErrInvoiceNotFound)

	err := svc.Delete(context.Background(), "INV-1")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
