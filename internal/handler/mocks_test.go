package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, identity model.Identity, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

func (m *MockCheckoutService) VerifyAndFinalize(ctx context.Context, identity model.Identity, req *model.VerifyPaymentRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByID(ctx context.Context, identity model.Identity, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, identity model.Identity, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, identity, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) Transition(ctx context.Context, identity model.Identity, orderID uuid.UUID, newStatus model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, identity, orderID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) View(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// serve routes a request through a mux with the identity middleware
// applied, the same shape the real router uses.
func serve(t *testing.T, pattern string, handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handlerFunc)
	rec := httptest.NewRecorder()
	middleware.Identity(zerolog.Nop())(mux).ServeHTTP(rec, req)
	return rec
}

// withIdentity sets the identity headers the upstream authenticator would.
func withIdentity(req *http.Request, identity model.Identity) *http.Request {
	req.Header.Set(middleware.HeaderUserID, identity.UserID.String())
	req.Header.Set(middleware.HeaderUserRole, string(identity.Role))
	return req
}
