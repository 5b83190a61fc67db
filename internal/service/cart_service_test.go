package service

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartService() (CartService, *MockCartRepository, *MockProductRepository) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	return NewCartService(cartRepo, productRepo, zerolog.Nop()), cartRepo, productRepo
}

func activeProduct() *model.Product {
	return &model.Product{
		ID:             uuid.New(),
		Name:           "Widget",
		UnitPriceMinor: 1299,
		StockQuantity:  10,
		IsActive:       true,
	}
}

func TestCartView(t *testing.T) {
	svc, cartRepo, _ := newCartService()
	ctx := context.Background()
	userID := uuid.New()

	lines := []model.CartLine{
		{ProductID: uuid.New(), ProductName: "A", Quantity: 2, UnitPriceMinor: 100, IsActive: true},
		{ProductID: uuid.New(), ProductName: "B", Quantity: 3, UnitPriceMinor: 50, IsActive: true},
	}
	cartRepo.On("Snapshot", ctx, nil, userID).Return(lines, nil)

	resp, err := svc.View(ctx, userID)

	require.NoError(t, err)
	assert.Len(t, resp.Lines, 2)
	assert.Equal(t, int64(2*100+3*50), resp.TotalMinor)
}

func TestCartView_Empty(t *testing.T) {
	svc, cartRepo, _ := newCartService()
	ctx := context.Background()
	userID := uuid.New()

	cartRepo.On("Snapshot", ctx, nil, userID).Return([]model.CartLine{}, nil)

	resp, err := svc.View(ctx, userID)

	require.NoError(t, err)
	assert.NotNil(t, resp.Lines)
	assert.Empty(t, resp.Lines)
	assert.Zero(t, resp.TotalMinor)
}

func TestCartAddItem(t *testing.T) {
	svc, cartRepo, productRepo := newCartService()
	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct()

	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	cartRepo.On("UpsertItem", ctx, userID, product.ID, 3).Return(nil)

	err := svc.AddItem(ctx, userID, &model.AddCartItemRequest{ProductID: product.ID, Quantity: 3})

	require.NoError(t, err)
	cartRepo.AssertCalled(t, "UpsertItem", ctx, userID, product.ID, 3)
}

func TestCartAddItem_UnknownProduct(t *testing.T) {
	svc, cartRepo, productRepo := newCartService()
	ctx := context.Background()
	productID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(nil, nil)

	err := svc.AddItem(ctx, uuid.New(), &model.AddCartItemRequest{ProductID: productID, Quantity: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	cartRepo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartAddItem_InactiveProduct(t *testing.T) {
	svc, cartRepo, productRepo := newCartService()
	ctx := context.Background()
	product := activeProduct()
	product.IsActive = false

	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)

	err := svc.AddItem(ctx, uuid.New(), &model.AddCartItemRequest{ProductID: product.ID, Quantity: 1})

	require.Error(t, err)

	var domErr *model.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, model.ErrCodeProductInactive, domErr.Code)
	cartRepo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartAddItem_InvalidQuantity(t *testing.T) {
	svc, _, productRepo := newCartService()
	ctx := context.Background()

	err := svc.AddItem(ctx, uuid.New(), &model.AddCartItemRequest{ProductID: uuid.New(), Quantity: 0})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCartRemoveItem(t *testing.T) {
	svc, cartRepo, _ := newCartService()
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	cartRepo.On("DeleteItem", ctx, userID, productID).Return(true, nil)

	err := svc.RemoveItem(ctx, userID, productID)

	require.NoError(t, err)
}

func TestCartRemoveItem_NotInCart(t *testing.T) {
	svc, cartRepo, _ := newCartService()
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	cartRepo.On("DeleteItem", ctx, userID, productID).Return(false, nil)

	err := svc.RemoveItem(ctx, userID, productID)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductGetAll_LimitDefaults(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewProductService(productRepo, zerolog.Nop())
	ctx := context.Background()

	productRepo.On("GetAll", ctx, defaultProductLimit, 0).Return([]model.Product{}, nil)
	productRepo.On("GetAll", ctx, maxProductLimit, 0).Return([]model.Product{}, nil)

	_, err := svc.GetAll(ctx, 0, -5)
	require.NoError(t, err)
	productRepo.AssertCalled(t, "GetAll", ctx, defaultProductLimit, 0)

	_, err = svc.GetAll(ctx, 1000, 0)
	require.NoError(t, err)
	productRepo.AssertCalled(t, "GetAll", ctx, maxProductLimit, 0)
}

func TestProductGetByID_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewProductService(productRepo, zerolog.Nop())
	ctx := context.Background()
	productID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(nil, nil)

	product, err := svc.GetByID(ctx, productID)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}
