package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invparser/internal/domain"
	"invparser/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) ExtractAndSave(ctx context.Context, input *service.ExtractAndSaveInput) (*service.ExtractionResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResponse), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListByVendor(ctx context.Context, vendorName string) (*service.VendorInvoices, error) {
	args := m.Called(ctx, vendorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VendorInvoices), args.Error(1)
}

func (m *MockInvoiceService) ExportVendorReport(ctx context.Context, vendorName string) ([]byte, error) {
	args := m.Called(ctx, vendorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}
