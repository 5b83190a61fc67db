package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// View resolves the caller's cart into priced lines and a total. The total
// shown here is informational; checkout recomputes it from its own
// snapshot.
func (s *cartService) View(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	lines, err := s.cartRepo.Snapshot(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, line := range lines {
		total += line.LineTotalMinor()
	}

	if lines == nil {
		lines = []model.CartLine{}
	}

	return &model.CartResponse{Lines: lines, TotalMinor: total}, nil
}

// AddItem adds a product to the caller's cart, replacing the quantity of an
// existing line. Unknown and inactive products are rejected up front so
// carts stay checkable.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	if !product.IsActive {
		return model.NewProductInactiveError(product.ID)
	}

	if err := s.cartRepo.UpsertItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return err
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", req.ProductID.String()).
		Int("quantity", req.Quantity).
		Msg("cart item upserted")

	return nil
}

// RemoveItem removes a product from the caller's cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.cartRepo.DeleteItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrProductNotFound
	}
	return nil
}
