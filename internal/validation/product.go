package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/forever/internal/domain"
)

// ProductInput is a product write as received from a form or JSON body.
// Nil fields were absent from the request.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *string
	Category    *string
	SubCategory *string
	Bestseller  *string
	Stock       *string

	// Sizes is set when the client sent a structured list.
	Sizes []string
	// SizesJSON is set when the client sent the list serialised as a string.
	SizesJSON *string
}

func (in ProductInput) hasSizes() bool {
	return in.Sizes != nil || in.SizesJSON != nil
}

// IsEmpty reports whether no product field was sent.
func (in ProductInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil &&
		in.Category == nil && in.SubCategory == nil && in.Bestseller == nil &&
		in.Stock == nil && !in.hasSizes()
}

const productOp = "product.validate"

// BuildProduct validates a full product write and returns the record to
// persist, without images. Date is set to now.
func BuildProduct(in ProductInput) (*domain.Product, error) {
	name := trimmed(in.Name)
	if name == "" {
		return nil, domain.Invalid(productOp, "Product name is required")
	}
	description := trimmed(in.Description)
	if description == "" {
		return nil, domain.Invalid(productOp, "Product description is required")
	}
	if in.Price == nil {
		return nil, domain.Invalid(productOp, "Valid price is required")
	}
	price, err := parsePrice(*in.Price)
	if err != nil {
		return nil, err
	}
	category := trimmed(in.Category)
	if category == "" {
		return nil, domain.Invalid(productOp, "Category is required")
	}
	subCategory := trimmed(in.SubCategory)
	if subCategory == "" {
		return nil, domain.Invalid(productOp, "Sub-category is required")
	}

	sizes := []string{}
	if in.hasSizes() {
		if sizes, err = parseSizes(in); err != nil {
			return nil, err
		}
	}

	stock := 0
	if in.Stock != nil {
		if stock, err = parseStock(*in.Stock); err != nil {
			return nil, err
		}
	}

	return &domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		SubCategory: subCategory,
		Sizes:       sizes,
		Bestseller:  in.Bestseller != nil && *in.Bestseller == "true",
		Stock:       stock,
		Images:      []string{},
		Date:        time.Now().UnixMilli(),
	}, nil
}

// BuildUpdate validates only the fields present in a partial update.
func BuildUpdate(in ProductInput) (domain.ProductUpdate, error) {
	var u domain.ProductUpdate

	var err error
	if u.Name, err = nonEmpty(in.Name, "Product name cannot be empty"); err != nil {
		return u, err
	}
	if u.Description, err = nonEmpty(in.Description, "Product description cannot be empty"); err != nil {
		return u, err
	}
	if u.Category, err = nonEmpty(in.Category, "Category cannot be empty"); err != nil {
		return u, err
	}
	if u.SubCategory, err = nonEmpty(in.SubCategory, "Sub-category cannot be empty"); err != nil {
		return u, err
	}
	if in.Price != nil {
		price, err := parsePrice(*in.Price)
		if err != nil {
			return u, err
		}
		u.Price = &price
	}
	if in.hasSizes() {
		sizes, err := parseSizes(in)
		if err != nil {
			return u, err
		}
		u.Sizes = &sizes
	}
	if in.Bestseller != nil {
		b := *in.Bestseller == "true"
		u.Bestseller = &b
	}
	if in.Stock != nil {
		stock, err := parseStock(*in.Stock)
		if err != nil {
			return u, err
		}
		u.Stock = &stock
	}

	return u, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonEmpty(s *string, msg string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, domain.Invalid(productOp, msg)
	}
	return &v, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, domain.Invalid(productOp, "Valid price is required")
	}
	return price, nil
}

func parseStock(raw string) (int, error) {
	stock, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || stock < 0 {
		return 0, domain.Invalid(productOp, "Stock must be a non-negative integer")
	}
	return stock, nil
}

func parseSizes(in ProductInput) ([]string, error) {
	var sizes []string
	if in.Sizes != nil {
		sizes = in.Sizes
	} else {
		raw := strings.TrimSpace(*in.SizesJSON)
		if raw == "" {
			return []string{}, nil
		}
		if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
			return nil, domain.Invalid(productOp, "Sizes must be a list")
		}
	}

	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
