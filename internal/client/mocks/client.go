package mocks

import (
	"context"

	"poe2scout/pricer/internal/client"
	"poe2scout/pricer/internal/domain"

	"github.com/stretchr/testify/mock"
)

// CatalogClient is a mock implementation of client.CatalogClient
type CatalogClient struct {
	mock.Mock
}

var _ client.CatalogClient = (*CatalogClient)(nil)

func (m *CatalogClient) GetCategories(ctx context.Context) (*domain.CategoryResponse, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(*domain.CategoryResponse); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogClient) GetLeagues(ctx context.Context) ([]domain.League, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]domain.League); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogClient) GetCurrencyItems(ctx context.Context, categoryAPIID string, query client.PageQuery) (*domain.CurrencyPage, error) {
	args := m.Called(ctx, categoryAPIID, query)
	if v, ok := args.Get(0).(*domain.CurrencyPage); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogClient) GetUniqueItems(ctx context.Context, categoryAPIID string, query client.PageQuery) (*domain.UniquePage, error) {
	args := m.Called(ctx, categoryAPIID, query)
	if v, ok := args.Get(0).(*domain.UniquePage); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogClient) GetUniqueBaseItems(ctx context.Context, query client.PageQuery) (*domain.UniqueBasePage, error) {
	args := m.Called(ctx, query)
	if v, ok := args.Get(0).(*domain.UniqueBasePage); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogClient) GetUniquesByBaseName(ctx context.Context, baseName, league string) (*domain.UniquesByBaseNameResponse, error) {
	args := m.Called(ctx, baseName, league)
	if v, ok := args.Get(0).(*domain.UniquesByBaseNameResponse); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogClient) GetCurrencyItemByID(ctx context.Context, apiID, league string) (*domain.CurrencyItemByIDResponse, error) {
	args := m.Called(ctx, apiID, league)
	if v, ok := args.Get(0).(*domain.CurrencyItemByIDResponse); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
