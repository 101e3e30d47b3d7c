package domain

import (
	"context"
	"slices"
)

// MaxProductImages is the number of image slots a product carries.
const MaxProductImages = 4

// Product sort fields accepted by the catalog listing.
const (
	SortByDate  = "date"
	SortByPrice = "price"
	SortByName  = "name"
)

// Product is a catalog entry. JSON field names match the storefront client.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"image"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Sizes       []string `json:"sizes"`
	Bestseller  bool     `json:"bestseller"`
	Stock       int      `json:"stock"`
	// Date is the creation time in Unix milliseconds.
	Date int64 `json:"date"`
}

// HasSize reports whether size is one of the product's available sizes.
func (p *Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// Thumbnail returns the first image URL, or "" for a product without images.
func (p *Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Snapshot captures the display fields stored alongside a cart entry.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:  p.Name,
		Price: p.Price,
		Image: p.Thumbnail(),
	}
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category    string   `json:"category,omitempty"`
	SubCategory string   `json:"subCategory,omitempty"`
	Bestseller  *bool    `json:"bestseller,omitempty"`
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
}

// ProductSort orders a catalog listing.
type ProductSort struct {
	Field string
	Desc  bool
}

// String renders the sort the way clients send it ("-date", "price").
func (s ProductSort) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// ProductQuery is a validated, normalised listing request.
type ProductQuery struct {
	Filter ProductFilter
	Sort   ProductSort
	Page   int
	Limit  int
}

// Offset is the number of records skipped before the requested page.
func (q ProductQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// ProductUpdate carries the fields present in a partial update.
// Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	SubCategory *string
	Sizes       *[]string
	Bestseller  *bool
	Stock       *int
	Images      *[]string
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Category == nil && u.SubCategory == nil && u.Sizes == nil &&
		u.Bestseller == nil && u.Stock == nil && u.Images == nil
}

// Apply copies the present fields onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.SubCategory != nil {
		p.SubCategory = *u.SubCategory
	}
	if u.Sizes != nil {
		p.Sizes = *u.Sizes
	}
	if u.Bestseller != nil {
		p.Bestseller = *u.Bestseller
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Images != nil {
		p.Images = *u.Images
	}
}

// ErrProductNotFound is returned by stores when no product matches an id.
// Malformed ids are reported the same way.
var ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found", Operational: true}

// ProductStore persists catalog entries.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	// ListProducts returns one page of matches and the total match count.
	ListProducts(ctx context.Context, q ProductQuery) ([]Product, int64, error)
	UpdateProduct(ctx context.Context, id string, u ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
