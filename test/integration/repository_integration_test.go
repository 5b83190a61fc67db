package integration

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_ReserveAndRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewInventoryRepository(db.Pool, zerolog.Nop())

	product := SeedProduct(t, db.Pool, 1000, 5, true)

	require.NoError(t, repo.Reserve(ctx, db.Pool, product, 3))
	assert.Equal(t, 2, StockOf(t, db.Pool, product))

	// Not enough left for another 3.
	err := repo.Reserve(ctx, db.Pool, product, 3)
	require.Error(t, err)

	var domErr *model.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domErr.Code)
	assert.Equal(t, 2, StockOf(t, db.Pool, product))

	require.NoError(t, repo.Release(ctx, db.Pool, product, 3))
	assert.Equal(t, 5, StockOf(t, db.Pool, product))
}

func TestInventoryRepository_ReserveInactive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewInventoryRepository(db.Pool, zerolog.Nop())

	product := SeedProduct(t, db.Pool, 1000, 5, false)

	err := repo.Reserve(ctx, db.Pool, product, 1)
	require.Error(t, err)

	var domErr *model.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "PRODUCT_INACTIVE", domErr.Code)
}

func TestInventoryRepository_ReserveUnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewInventoryRepository(db.Pool, zerolog.Nop())

	err := repo.Reserve(ctx, db.Pool, uuid.New(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestInventoryRepository_ConcurrentReserves(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewInventoryRepository(db.Pool, zerolog.Nop())

	product := SeedProduct(t, db.Pool, 1000, 10, true)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Reserve(ctx, db.Pool, product, 1)
		}()
	}
	wg.Wait()
	close(results)

	var granted int
	for err := range results {
		if err == nil {
			granted++
		}
	}

	// Ten units, ten grants, never negative.
	assert.Equal(t, 10, granted)
	assert.Equal(t, 0, StockOf(t, db.Pool, product))
}

func TestCartRepository_UpsertSnapshotClear(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewCartRepository(db.Pool, zerolog.Nop())
	userID := uuid.New()

	productA := SeedProduct(t, db.Pool, 300, 5, true)
	productB := SeedProduct(t, db.Pool, 700, 5, true)

	require.NoError(t, repo.UpsertItem(ctx, userID, productA, 2))
	require.NoError(t, repo.UpsertItem(ctx, userID, productB, 1))

	// Upserting again replaces the quantity rather than adding a line.
	require.NoError(t, repo.UpsertItem(ctx, userID, productA, 4))

	lines, err := repo.Snapshot(ctx, nil, userID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, productA, lines[0].ProductID)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, int64(300), lines[0].UnitPriceMinor)

	removed, err := repo.DeleteItem(ctx, userID, productB)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteItem(ctx, userID, productB)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, repo.Clear(ctx, nil, userID))
	lines, err = repo.Snapshot(ctx, nil, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderRepository_GatewayRefUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewOrderRepository(db.Pool, zerolog.Nop())

	ref := "order_" + uuid.NewString()
	payRef := "pay_" + uuid.NewString()

	makeOrder := func() *model.Order {
		return &model.Order{
			ID:                uuid.New(),
			UserID:            uuid.New(),
			TotalMinor:        1000,
			Status:            model.OrderStatusConfirmed,
			PaymentStatus:     model.PaymentStatusPaid,
			PaymentMethod:     model.PaymentMethodGateway,
			GatewayOrderRef:   &ref,
			GatewayPaymentRef: &payRef,
		}
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	first := makeOrder()
	require.NoError(t, repo.CreateOrder(ctx, tx, first))
	require.NoError(t, tx.Commit(ctx))

	// A second order with the same gateway ref violates the unique
	// constraint the idempotency race recovery depends on.
	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	err = repo.CreateOrder(ctx, tx, makeOrder())
	require.Error(t, err)
	_ = tx.Rollback(ctx)

	found, err := repo.GetByGatewayOrderRef(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	missing, err := repo.GetByGatewayOrderRef(ctx, "order_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
