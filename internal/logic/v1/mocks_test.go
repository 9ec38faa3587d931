package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/duynhne/storefront-service/internal/core/domain"
)

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUserRow, error) {
	args := m.Called(ctx, username)
	row, _ := args.Get(0).(*domain.AdminUserRow)
	return row, args.Error(1)
}

func (m *mockAdminRepo) Create(ctx context.Context, username, passwordHash, role string) (string, error) {
	args := m.Called(ctx, username, passwordHash, role)
	return args.String(0), args.Error(1)
}

func (m *mockAdminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}
