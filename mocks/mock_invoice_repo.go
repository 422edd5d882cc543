package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invparser/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Save(ctx context.Context, inv *domain.Invoice) (string, error) {
	args := m.Called(ctx, inv)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListByVendor(ctx context.Context, vendorName string) ([]domain.Invoice, error) {
	args := m.Called(ctx, vendorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) Delete(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}
