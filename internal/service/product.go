package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/events"
	"github.com/dukerupert/forever/internal/media"
	"github.com/dukerupert/forever/internal/telemetry"
	"github.com/dukerupert/forever/internal/validation"
	"golang.org/x/sync/errgroup"
)

// ProductService provides business logic for the product catalog
type ProductService interface {
	CreateProduct(ctx context.Context, in validation.ProductInput, images []ImageUpload) (*domain.Product, error)
	ListProducts(ctx context.Context, q domain.ProductQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in validation.ProductInput, images []ImageUpload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ImageUpload is one received image file, already checked for type and size.
type ImageUpload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Pagination describes where a listing page sits in the full result.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasMore     bool  `json:"hasMore"`
}

// AppliedFilters echoes the effective listing criteria.
type AppliedFilters struct {
	Applied domain.ProductFilter `json:"applied"`
	SortBy  string               `json:"sortBy"`
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products   []domain.Product
	Pagination Pagination
	Filters    AppliedFilters
}

type productService struct {
	store     domain.ProductStore
	media     media.Host
	publisher events.Publisher
	logger    *slog.Logger
}

// NewProductService creates a new ProductService instance
func NewProductService(store domain.ProductStore, host media.Host, publisher events.Publisher, logger *slog.Logger) ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &productService{
		store:     store,
		media:     host,
		publisher: publisher,
		logger:    logger.With("service", "product"),
	}
}

// CreateProduct validates the input, uploads every image and persists the
// product. Any upload failure aborts the create.
func (s *productService) CreateProduct(ctx context.Context, in validation.ProductInput, images []ImageUpload) (*domain.Product, error) {
	product, err := validation.BuildProduct(in)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrImageRequired
	}
	if len(images) > domain.MaxProductImages {
		images = images[:domain.MaxProductImages]
	}

	urls, err := s.upload(ctx, "create", images)
	if err != nil {
		return nil, err
	}
	product.Images = urls

	if err := s.store.CreateProduct(ctx, product); err != nil {
		s.discard(ctx, "create", urls)
		return nil, err
	}

	s.logger.Info("product created", "product_id", product.ID, "images", len(urls))
	if telemetry.Business != nil {
		telemetry.Business.ProductsCreated.WithLabelValues(product.Category).Inc()
	}
	publish(ctx, s.publisher, s.logger, events.ProductCreated, events.ProductEvent{ProductID: product.ID, Product: product})

	return product, nil
}

// ListProducts returns one page of the filtered, sorted catalog.
func (s *productService) ListProducts(ctx context.Context, q domain.ProductQuery) (*ProductPage, error) {
	products, total, err := s.store.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	if telemetry.Business != nil {
		filtered := q.Filter != (domain.ProductFilter{})
		telemetry.Business.ProductSearches.WithLabelValues(strconv.FormatBool(filtered)).Inc()
	}

	return &ProductPage{
		Products:   products,
		Pagination: paginate(q.Page, q.Limit, total),
		Filters: AppliedFilters{
			Applied: q.Filter,
			SortBy:  q.Sort.String(),
		},
	}, nil
}

// paginate derives page metadata. hasMore holds exactly when
// total > page*limit, which for whole pages is page < totalPages; comparing
// that way never multiplies page by limit.
func paginate(page, limit int, total int64) Pagination {
	var pages int64
	if limit > 0 && total > 0 {
		pages = total / int64(limit)
		if total%int64(limit) != 0 {
			pages++
		}
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  int(pages),
		TotalItems:  total,
		HasMore:     int64(page) < pages,
	}
}

// GetProduct returns one product.
func (s *productService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if telemetry.Business != nil {
		telemetry.Business.ProductViews.Inc()
	}
	return product, nil
}

// UpdateProduct applies a partial update. New images are appended to the
// existing ones; images beyond the slot limit are not uploaded.
func (s *productService) UpdateProduct(ctx context.Context, id string, in validation.ProductInput, images []ImageUpload) (*domain.Product, error) {
	current, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	update, err := validation.BuildUpdate(in)
	if err != nil {
		return nil, err
	}

	var uploaded []string
	if free := domain.MaxProductImages - len(current.Images); len(images) > 0 && free > 0 {
		if len(images) > free {
			images = images[:free]
		}
		uploaded, err = s.upload(ctx, "update", images)
		if err != nil {
			return nil, err
		}
		all := append(append([]string{}, current.Images...), uploaded...)
		update.Images = &all
	}

	if update.IsEmpty() {
		return current, nil
	}

	product, err := s.store.UpdateProduct(ctx, id, update)
	if err != nil {
		s.discard(ctx, "update", uploaded)
		return nil, err
	}

	s.logger.Info("product updated", "product_id", id, "new_images", len(uploaded))
	if telemetry.Business != nil {
		telemetry.Business.ProductsUpdated.Inc()
	}
	publish(ctx, s.publisher, s.logger, events.ProductUpdated, events.ProductEvent{ProductID: id, Product: product})

	return product, nil
}

// DeleteProduct removes the product. Hosted images are removed best-effort;
// failures are logged and never block the delete.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	s.discard(ctx, "delete", product.Images)

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", "product_id", id)
	if telemetry.Business != nil {
		telemetry.Business.ProductsDeleted.Inc()
	}
	publish(ctx, s.publisher, s.logger, events.ProductDeleted, events.ProductEvent{ProductID: id})

	return nil
}

// upload sends images to the media host concurrently and returns their URLs
// in input order. On failure the images that did upload are removed.
func (s *productService) upload(ctx context.Context, op string, images []ImageUpload) ([]string, error) {
	urls := make([]string, len(images))

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			f, err := img.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", img.Filename, err)
			}
			defer f.Close()

			url, err := s.media.Upload(gctx, img.Filename, f, img.ContentType)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("image upload failed", "operation", op, "error", err)
		if telemetry.Business != nil {
			telemetry.Business.ImageUploadFailures.WithLabelValues(op).Inc()
		}
		s.discard(context.WithoutCancel(ctx), op, urls)
		return nil, domain.Upstream(err, "media.upload", "Failed to upload image")
	}

	if telemetry.Business != nil {
		telemetry.Business.ImageUploads.WithLabelValues(op).Add(float64(len(urls)))
	}
	return urls, nil
}

// discard deletes hosted images, logging failures.
func (s *productService) discard(ctx context.Context, op string, urls []string) {
	var g errgroup.Group
	for _, url := range urls {
		if url == "" {
			continue
		}
		g.Go(func() error {
			if err := s.media.Delete(ctx, url); err != nil {
				s.logger.Warn("failed to delete hosted image", "operation", op, "url", url, "error", err)
				if telemetry.Business != nil {
					telemetry.Business.ImageDeleteFailures.WithLabelValues(op).Inc()
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}
