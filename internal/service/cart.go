package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/events"
	"github.com/dukerupert/forever/internal/telemetry"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CartService provides business logic for the per-user shopping cart
type CartService interface {
	AddItem(ctx context.Context, userID, productID, size string) (*domain.CartState, error)
	SetItemQuantity(ctx context.Context, userID, productID, size string, quantity int) (*domain.CartState, error)
	GetCart(ctx context.Context, userID string) (*domain.CartView, error)
	ClearCart(ctx context.Context, userID string) error
	RecomputeTotal(ctx context.Context, cart domain.Cart) (float64, error)
}

// lookupConcurrency bounds parallel product lookups for one cart.
const lookupConcurrency = 8

// cartService reads and writes the whole cart on every mutation. Two
// concurrent mutations for the same user race and the last write wins.
type cartService struct {
	products  domain.ProductStore
	users     domain.UserStore
	publisher events.Publisher
	logger    *slog.Logger
}

// NewCartService creates a new CartService instance
func NewCartService(products domain.ProductStore, users domain.UserStore, publisher events.Publisher, logger *slog.Logger) CartService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &cartService{
		products:  products,
		users:     users,
		publisher: publisher,
		logger:    logger.With("service", "cart"),
	}
}

// AddItem adds one unit of size for productID. The product snapshot is
// captured only when the product is new to the cart.
func (s *cartService) AddItem(ctx context.Context, userID, productID, size string) (*domain.CartState, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if size != "" && !product.HasSize(size) {
		return nil, ErrSizeNotAvailable
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := user.Cart.Clone()
	cart.Increment(productID, size, product.Snapshot())

	state, err := s.save(ctx, userID, cart)
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsAdded.WithLabelValues(size).Inc()
	}
	return state, nil
}

// SetItemQuantity sets the quantity of one size directly. Zero removes the
// size, and the product once no sizes remain.
func (s *cartService) SetItemQuantity(ctx context.Context, userID, productID, size string, quantity int) (*domain.CartState, error) {
	if productID == "" || size == "" {
		return nil, ErrMissingCartFields
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasSize(size) {
		return nil, ErrInvalidSize
	}

	cart := user.Cart.Clone()
	cart.SetQuantity(productID, size, quantity, product.Snapshot())

	state, err := s.save(ctx, userID, cart)
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartUpdated.Inc()
	}
	return state, nil
}

// GetCart returns the cart with live product details. Products that no
// longer exist are left out.
func (s *cartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	live, err := s.lookup(ctx, user.Cart)
	if err != nil {
		return nil, err
	}

	view := &domain.CartView{Items: []domain.CartLine{}}
	grand := decimal.Zero
	for _, id := range user.Cart.ProductIDs() {
		product, ok := live[id]
		if !ok {
			continue
		}
		entry := user.Cart[id]
		if entry == nil {
			continue
		}

		price := decimal.NewFromFloat(product.Price)
		line := domain.CartLine{
			ProductID: id,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Thumbnail(),
			Stock:     product.Stock,
			Sizes:     []domain.CartSize{},
		}
		lineTotal := decimal.Zero
		for _, size := range entry.OrderedSizes(product.Sizes) {
			qty := entry.Quantities[size]
			if qty <= 0 {
				continue
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(qty)))
			line.Sizes = append(line.Sizes, domain.CartSize{
				Size:     size,
				Quantity: qty,
				Subtotal: money(subtotal),
			})
			lineTotal = lineTotal.Add(subtotal)
			view.ItemCount += qty
		}
		line.Total = money(lineTotal)
		grand = grand.Add(lineTotal)
		view.Items = append(view.Items, line)
	}
	view.Total = money(grand)

	return view, nil
}

// ClearCart empties the cart. A missing user is not an error.
func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	err := s.users.SaveCart(ctx, userID, domain.Cart{}, 0)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartCleared.Inc()
	}
	publish(ctx, s.publisher, s.logger, events.CartCleared, events.CartEvent{UserID: userID})
	return nil
}

// RecomputeTotal prices the cart at current product prices. Products that
// no longer exist contribute nothing.
func (s *cartService) RecomputeTotal(ctx context.Context, cart domain.Cart) (float64, error) {
	live, err := s.lookup(ctx, cart)
	if err != nil {
		return 0, err
	}
	return money(total(cart, live)), nil
}

func (s *cartService) save(ctx context.Context, userID string, cart domain.Cart) (*domain.CartState, error) {
	cartTotal, err := s.RecomputeTotal(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveCart(ctx, userID, cart, cartTotal); err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartValue.Observe(cartTotal)
	}
	publish(ctx, s.publisher, s.logger, events.CartUpdated, events.CartEvent{
		UserID:    userID,
		ItemCount: cart.ItemCount(),
		CartTotal: cartTotal,
	})

	return &domain.CartState{CartData: cart, CartTotal: cartTotal}, nil
}

// lookup fetches the current record of every product in cart, keyed by id.
// Products that no longer exist are absent from the result.
func (s *cartService) lookup(ctx context.Context, cart domain.Cart) (map[string]*domain.Product, error) {
	ids := cart.ProductIDs()
	found := make([]*domain.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.products.GetProduct(gctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return nil
				}
				return err
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	live := make(map[string]*domain.Product, len(ids))
	for i, p := range found {
		if p != nil {
			live[ids[i]] = p
		}
	}
	return live, nil
}

func total(cart domain.Cart, live map[string]*domain.Product) decimal.Decimal {
	sum := decimal.Zero
	for id, entry := range cart {
		product, ok := live[id]
		if !ok || entry == nil {
			continue
		}
		price := decimal.NewFromFloat(product.Price)
		for _, qty := range entry.Quantities {
			if qty > 0 {
				sum = sum.Add(price.Mul(decimal.NewFromInt(int64(qty))))
			}
		}
	}
	return sum
}

// money rounds to cents and converts for the JSON response.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
