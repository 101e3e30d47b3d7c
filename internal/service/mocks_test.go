package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/forever/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProductStore implements domain.ProductStore for testing
type mockProductStore struct {
	createProductFunc func(ctx context.Context, p *domain.Product) error
	getProductFunc    func(ctx context.Context, id string) (*domain.Product, error)
	listProductsFunc  func(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error)
	updateProductFunc func(ctx context.Context, id string, u domain.ProductUpdate) (*domain.Product, error)
	deleteProductFunc func(ctx context.Context, id string) error
}

func (m *mockProductStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	if m.createProductFunc != nil {
		return m.createProductFunc(ctx, p)
	}
	return nil
}

func (m *mockProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.getProductFunc != nil {
		return m.getProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductStore) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, q)
	}
	return nil, 0, nil
}

func (m *mockProductStore) UpdateProduct(ctx context.Context, id string, u domain.ProductUpdate) (*domain.Product, error) {
	if m.updateProductFunc != nil {
		return m.updateProductFunc(ctx, id, u)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductStore) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteProductFunc != nil {
		return m.deleteProductFunc(ctx, id)
	}
	return nil
}

// catalog returns a product store backed by a fixed set of products.
func catalog(products ...*domain.Product) *mockProductStore {
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockProductStore{
		getProductFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			if p, ok := byID[id]; ok {
				cp := *p
				return &cp, nil
			}
			return nil, domain.ErrProductNotFound
		},
	}
}

// mockUserStore implements domain.UserStore for testing
type mockUserStore struct {
	createUserFunc     func(ctx context.Context, u *domain.User) error
	getUserByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	getUserByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	saveCartFunc       func(ctx context.Context, userID string, cart domain.Cart, total float64) error
}

func (m *mockUserStore) CreateUser(ctx context.Context, u *domain.User) error {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, u)
	}
	return nil
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getUserByEmailFunc != nil {
		return m.getUserByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserStore) SaveCart(ctx context.Context, userID string, cart domain.Cart, total float64) error {
	if m.saveCartFunc != nil {
		return m.saveCartFunc(ctx, userID, cart, total)
	}
	return nil
}

// account returns a user store holding one user whose cart is persisted
// across calls, so a sequence of mutations can be observed.
func account(user *domain.User) *mockUserStore {
	var mu sync.Mutex
	return &mockUserStore{
		getUserByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			mu.Lock()
			defer mu.Unlock()
			if id != user.ID {
				return nil, domain.ErrUserNotFound
			}
			cp := *user
			cp.Cart = user.Cart.Clone()
			return &cp, nil
		},
		saveCartFunc: func(ctx context.Context, userID string, cart domain.Cart, total float64) error {
			mu.Lock()
			defer mu.Unlock()
			if userID != user.ID {
				return domain.ErrUserNotFound
			}
			user.Cart = cart.Clone()
			user.CartTotal = total
			return nil
		},
	}
}

// mockMediaHost implements media.Host for testing
type mockMediaHost struct {
	uploadFunc func(ctx context.Context, filename string, content io.Reader, contentType string) (string, error)
	deleteFunc func(ctx context.Context, url string) error

	mu      sync.Mutex
	deleted []string
}

func (m *mockMediaHost) Upload(ctx context.Context, filename string, content io.Reader, contentType string) (string, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, filename, content, contentType)
	}
	return "https://cdn.test/" + filename, nil
}

func (m *mockMediaHost) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, url)
	m.mu.Unlock()
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, url)
	}
	return nil
}

// recordingPublisher implements events.Publisher and remembers subjects.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return p.err
}

func image(name string) ImageUpload {
	return ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("png-bytes")), nil
		},
	}
}
