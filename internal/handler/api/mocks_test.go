package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/handler"
	"github.com/dukerupert/forever/internal/service"
	"github.com/dukerupert/forever/internal/validation"
	"github.com/stretchr/testify/require"
)

func responder() *handler.Responder {
	return handler.NewResponder(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// asUser attaches user claims the way middleware.RequireUser does.
func asUser(r *http.Request, userID string) *http.Request {
	ctx := domain.NewContextWithClaims(r.Context(), &domain.Claims{UserID: userID, Role: domain.RoleUser})
	return r.WithContext(ctx)
}

// response is the union of the success and error bodies.
type response struct {
	Success    bool            `json:"success"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Count      *int            `json:"count"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
	Filters    json.RawMessage `json:"filters"`
	Token      string          `json:"token"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var body response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// mockCartService implements service.CartService for testing
type mockCartService struct {
	addItemFunc         func(ctx context.Context, userID, productID, size string) (*domain.CartState, error)
	setItemQuantityFunc func(ctx context.Context, userID, productID, size string, quantity int) (*domain.CartState, error)
	getCartFunc         func(ctx context.Context, userID string) (*domain.CartView, error)
	clearCartFunc       func(ctx context.Context, userID string) error
}

func (m *mockCartService) AddItem(ctx context.Context, userID, productID, size string) (*domain.CartState, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, userID, productID, size)
	}
	return &domain.CartState{CartData: domain.Cart{}}, nil
}

func (m *mockCartService) SetItemQuantity(ctx context.Context, userID, productID, size string, quantity int) (*domain.CartState, error) {
	if m.setItemQuantityFunc != nil {
		return m.setItemQuantityFunc(ctx, userID, productID, size, quantity)
	}
	return &domain.CartState{CartData: domain.Cart{}}, nil
}

func (m *mockCartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	if m.getCartFunc != nil {
		return m.getCartFunc(ctx, userID)
	}
	return &domain.CartView{Items: []domain.CartLine{}}, nil
}

func (m *mockCartService) ClearCart(ctx context.Context, userID string) error {
	if m.clearCartFunc != nil {
		return m.clearCartFunc(ctx, userID)
	}
	return nil
}

func (m *mockCartService) RecomputeTotal(ctx context.Context, cart domain.Cart) (float64, error) {
	return 0, nil
}

// mockProductService implements service.ProductService for testing
type mockProductService struct {
	createProductFunc func(ctx context.Context, in validation.ProductInput, images []service.ImageUpload) (*domain.Product, error)
	listProductsFunc  func(ctx context.Context, q domain.ProductQuery) (*service.ProductPage, error)
	getProductFunc    func(ctx context.Context, id string) (*domain.Product, error)
	updateProductFunc func(ctx context.Context, id string, in validation.ProductInput, images []service.ImageUpload) (*domain.Product, error)
	deleteProductFunc func(ctx context.Context, id string) error
}

func (m *mockProductService) CreateProduct(ctx context.Context, in validation.ProductInput, images []service.ImageUpload) (*domain.Product, error) {
	if m.createProductFunc != nil {
		return m.createProductFunc(ctx, in, images)
	}
	return &domain.Product{}, nil
}

func (m *mockProductService) ListProducts(ctx context.Context, q domain.ProductQuery) (*service.ProductPage, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, q)
	}
	return &service.ProductPage{Products: []domain.Product{}}, nil
}

func (m *mockProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.getProductFunc != nil {
		return m.getProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id string, in validation.ProductInput, images []service.ImageUpload) (*domain.Product, error) {
	if m.updateProductFunc != nil {
		return m.updateProductFunc(ctx, id, in, images)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteProductFunc != nil {
		return m.deleteProductFunc(ctx, id)
	}
	return nil
}

// mockUserService implements service.UserService for testing
type mockUserService struct {
	registerFunc   func(ctx context.Context, name, email, password string) (string, error)
	loginFunc      func(ctx context.Context, email, password string) (string, error)
	adminLoginFunc func(ctx context.Context, email, password string) (string, error)
}

func (m *mockUserService) Register(ctx context.Context, name, email, password string) (string, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, name, email, password)
	}
	return "token", nil
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return "token", nil
}

func (m *mockUserService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	if m.adminLoginFunc != nil {
		return m.adminLoginFunc(ctx, email, password)
	}
	return "admin-token", nil
}
