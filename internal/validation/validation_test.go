package validation

import (
	"encoding/json"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func num(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func assertInvalid(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, msg, domain.ErrorMessage(err))
}

func TestValidateCartAdd(t *testing.T) {
	tests := []struct {
		name    string
		req     CartRequest
		wantMsg string
	}{
		{"valid without quantity", CartRequest{ItemID: "p1", Size: "M"}, ""},
		{"valid with zero quantity", CartRequest{ItemID: "p1", Quantity: num("0")}, ""},
		{"missing item id", CartRequest{Size: "M"}, "Product ID is required"},
		{"negative quantity", CartRequest{ItemID: "p1", Quantity: num("-1")}, "Invalid quantity"},
		{"fractional quantity", CartRequest{ItemID: "p1", Quantity: num("1.5")}, "Invalid quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCartAdd(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.wantMsg)
		})
	}
}

func TestValidateCartUpdate(t *testing.T) {
	assertInvalid(t, ValidateCartUpdate(CartRequest{Size: "M", Quantity: num("1")}), "Product ID is required")
	assertInvalid(t, ValidateCartUpdate(CartRequest{ItemID: "p1", Size: "M"}), "Quantity is required for updates")
	assertInvalid(t, ValidateCartUpdate(CartRequest{ItemID: "p1", Size: "M", Quantity: num("-3")}), "Invalid quantity")
	assert.NoError(t, ValidateCartUpdate(CartRequest{ItemID: "p1", Size: "M", Quantity: num("3")}))
}

func TestCartRequest_DecodesNumericStrings(t *testing.T) {
	var req CartRequest
	require.NoError(t, json.Unmarshal([]byte(`{"itemId":"p1","size":"M","quantity":"4"}`), &req))
	require.NoError(t, ValidateCartUpdate(req))

	q, ok := req.QuantityValue()
	assert.True(t, ok)
	assert.Equal(t, 4, q)
}

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantMsg string
	}{
		{"valid", RegisterRequest{Name: " Ann ", Email: " Ann@Example.com", Password: "password1"}, ""},
		{"missing name", RegisterRequest{Email: "a@b.co", Password: "password1"}, "Name is required"},
		{"missing email", RegisterRequest{Name: "Ann", Password: "password1"}, "Email is required"},
		{"bad email", RegisterRequest{Name: "Ann", Email: "nope", Password: "password1"}, "Please enter a valid email"},
		{"short password", RegisterRequest{Name: "Ann", Email: "a@b.co", Password: "short"}, "Password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := ValidateRegister(&req)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, "Ann", req.Name)
				assert.Equal(t, "ann@example.com", req.Email)
				return
			}
			assertInvalid(t, err, tt.wantMsg)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assertInvalid(t, ValidateLogin(&LoginRequest{Password: "x"}), "Email is required")
	assertInvalid(t, ValidateLogin(&LoginRequest{Email: "a@b.co"}), "Password is required")
	assert.NoError(t, ValidateLogin(&LoginRequest{Email: "a@b.co", Password: "x"}))
}

func validInput() ProductInput {
	return ProductInput{
		Name:        str("  Cotton Shirt "),
		Description: str("Soft"),
		Price:       str("19.99"),
		Category:    str("Men"),
		SubCategory: str("Topwear"),
		SizesJSON:   str(`["S","M","L"]`),
		Bestseller:  str("true"),
	}
}

func TestBuildProduct(t *testing.T) {
	p, err := BuildProduct(validInput())
	require.NoError(t, err)
	assert.Equal(t, "Cotton Shirt", p.Name)
	assert.Equal(t, 19.99, p.Price)
	assert.Equal(t, []string{"S", "M", "L"}, p.Sizes)
	assert.True(t, p.Bestseller)
	assert.NotZero(t, p.Date)
	assert.Empty(t, p.Images)

	t.Run("structured sizes", func(t *testing.T) {
		in := validInput()
		in.SizesJSON = nil
		in.Sizes = []string{"XL", " "}
		p, err := BuildProduct(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"XL"}, p.Sizes)
	})

	t.Run("bestseller only when exactly true", func(t *testing.T) {
		in := validInput()
		in.Bestseller = str("yes")
		p, err := BuildProduct(in)
		require.NoError(t, err)
		assert.False(t, p.Bestseller)
	})

	failures := []struct {
		name   string
		mutate func(in *ProductInput)
		msg    string
	}{
		{"blank name", func(in *ProductInput) { in.Name = str("   ") }, "Product name is required"},
		{"missing description", func(in *ProductInput) { in.Description = nil }, "Product description is required"},
		{"missing price", func(in *ProductInput) { in.Price = nil }, "Valid price is required"},
		{"non-numeric price", func(in *ProductInput) { in.Price = str("abc") }, "Valid price is required"},
		{"zero price", func(in *ProductInput) { in.Price = str("0") }, "Valid price is required"},
		{"missing category", func(in *ProductInput) { in.Category = str("") }, "Category is required"},
		{"missing sub-category", func(in *ProductInput) { in.SubCategory = nil }, "Sub-category is required"},
		{"malformed sizes", func(in *ProductInput) { in.SizesJSON = str("S,M") }, "Sizes must be a list"},
		{"negative stock", func(in *ProductInput) { in.Stock = str("-2") }, "Stock must be a non-negative integer"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := BuildProduct(in)
			assertInvalid(t, err, tt.msg)
		})
	}
}

func TestBuildUpdate(t *testing.T) {
	u, err := BuildUpdate(ProductInput{Name: str(" New "), Price: str("5"), Stock: str("3")})
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "New", *u.Name)
	assert.Equal(t, 5.0, *u.Price)
	assert.Equal(t, 3, *u.Stock)
	assert.Nil(t, u.Category)
	assert.Nil(t, u.Sizes)

	empty, err := BuildUpdate(ProductInput{})
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	assertInvalid(t, func() error { _, err := BuildUpdate(ProductInput{Name: str("")}); return err }(), "Product name cannot be empty")
	assertInvalid(t, func() error { _, err := BuildUpdate(ProductInput{Description: str(" ")}); return err }(), "Product description cannot be empty")
	assertInvalid(t, func() error { _, err := BuildUpdate(ProductInput{Category: str("")}); return err }(), "Category cannot be empty")
	assertInvalid(t, func() error { _, err := BuildUpdate(ProductInput{SubCategory: str("")}); return err }(), "Sub-category cannot be empty")
	assertInvalid(t, func() error { _, err := BuildUpdate(ProductInput{Price: str("-1")}); return err }(), "Valid price is required")
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestCheckImage(t *testing.T) {
	assert.NoError(t, CheckImage(fileHeader("a.jpg", "image/jpeg", 1024)))
	assertInvalid(t, CheckImage(fileHeader("a.pdf", "application/pdf", 1024)), "Only image files are allowed")

	err := CheckImage(fileHeader("big.png", "image/png", MaxImageSize+1))
	require.Error(t, err)
	assert.Equal(t, domain.ETOOLARGE, domain.ErrorCode(err))
}

func TestImageFiles(t *testing.T) {
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"image3": {fileHeader("c.jpg", "image/jpeg", 10)},
		"image1": {fileHeader("a.jpg", "image/jpeg", 10)},
		"other":  {fileHeader("x.jpg", "image/jpeg", 10)},
	}}

	files, err := ImageFiles(form)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", files[0].Filename)
	assert.Equal(t, "c.jpg", files[1].Filename)

	files, err = ImageFiles(nil)
	assert.NoError(t, err)
	assert.Empty(t, files)
}
