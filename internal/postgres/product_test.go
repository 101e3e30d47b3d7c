package postgres

import (
	"context"
	"testing"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestBuildProductWhere(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.ProductFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter",
			filter:    domain.ProductFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "category only",
			filter:    domain.ProductFilter{Category: "Men"},
			wantWhere: " WHERE category = $1",
			wantArgs:  []any{"Men"},
		},
		{
			name: "all fields",
			filter: domain.ProductFilter{
				Category:    "Women",
				SubCategory: "Topwear",
				Bestseller:  boolPtr(true),
				MinPrice:    floatPtr(10),
				MaxPrice:    floatPtr(99.5),
			},
			wantWhere: " WHERE category = $1 AND sub_category = $2 AND bestseller = $3 AND price >= $4 AND price <= $5",
			wantArgs:  []any{"Women", "Topwear", true, 10.0, 99.5},
		},
		{
			name:      "bestseller false is still a filter",
			filter:    domain.ProductFilter{Bestseller: boolPtr(false)},
			wantWhere: " WHERE bestseller = $1",
			wantArgs:  []any{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildProductWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		sort    domain.ProductSort
		want    string
		wantErr bool
	}{
		{sort: domain.ProductSort{Field: domain.SortByDate, Desc: true}, want: "date DESC, id ASC"},
		{sort: domain.ProductSort{Field: domain.SortByPrice}, want: "price ASC, id ASC"},
		{sort: domain.ProductSort{Field: domain.SortByName, Desc: true}, want: "name DESC, id ASC"},
		{sort: domain.ProductSort{Field: "id; DROP TABLE products"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.sort.Field, func(t *testing.T) {
			got, err := orderBy(tt.sort)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListArg(t *testing.T) {
	assert.Nil(t, listArg(nil))

	empty := []string(nil)
	assert.Equal(t, []string{}, listArg(&empty))

	sizes := []string{"S", "M"}
	assert.Equal(t, []string{"S", "M"}, listArg(&sizes))
}

func TestProductStore_MalformedIDIsNotFound(t *testing.T) {
	// The malformed-id checks return before touching the database.
	s := NewProductStore(nil)
	ctx := context.Background()

	_, err := s.GetProduct(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = s.UpdateProduct(ctx, "not-a-uuid", domain.ProductUpdate{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.ErrorIs(t, s.DeleteProduct(ctx, "not-a-uuid"), domain.ErrProductNotFound)
}

func TestUserStore_MalformedIDIsNotFound(t *testing.T) {
	s := NewUserStore(nil)
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, s.SaveCart(ctx, "123", domain.Cart{}, 0), domain.ErrUserNotFound)
}
