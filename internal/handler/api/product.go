package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/handler"
	"github.com/dukerupert/forever/internal/service"
	"github.com/dukerupert/forever/internal/validation"
)

// multipartMemory is how much of a multipart form is held in memory before
// parts spill to temporary files.
const multipartMemory = 8 << 20

// ProductHandler handles the /product routes.
type ProductHandler struct {
	products service.ProductService
	rs       *handler.Responder
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductService, rs *handler.Responder) *ProductHandler {
	return &ProductHandler{products: products, rs: rs}
}

// Create handles POST /product/add
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, images, cleanup, err := readProduct(r)
	defer cleanup()
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), in, images)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, handler.Envelope{Message: "Product added successfully", Data: product})
}

// List handles GET /product/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ParseProductQuery(r.URL.Query())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	page, err := h.products.ListProducts(r.Context(), q)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	if len(page.Products) == 0 {
		handler.OK(w, handler.Envelope{
			Message:    "No products found matching the criteria",
			Count:      handler.Count(0),
			Data:       page.Products,
			Pagination: page.Pagination,
		})
		return
	}

	handler.OK(w, handler.Envelope{
		Count:      handler.Count(len(page.Products)),
		Data:       page.Products,
		Pagination: page.Pagination,
		Filters:    page.Filters,
	})
}

// Get handles GET /product/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Data: product})
}

// Update handles PUT /product/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, images, cleanup, err := readProduct(r)
	defer cleanup()
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), r.PathValue("id"), in, images)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Message: "Product updated successfully", Data: product})
}

// Delete handles DELETE /product/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Message: "Product deleted successfully"})
}

// readProduct extracts the product fields and image files from a multipart
// form, an urlencoded form or a JSON body. cleanup removes any temporary
// files and is always safe to call.
func readProduct(r *http.Request) (validation.ProductInput, []service.ImageUpload, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return validation.ProductInput{}, nil, noop, formError(err)
		}
		form := r.MultipartForm
		cleanup := func() { _ = form.RemoveAll() }

		files, err := validation.ImageFiles(form)
		if err != nil {
			return validation.ProductInput{}, nil, cleanup, err
		}
		return inputFromForm(form.Value), uploads(files), cleanup, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return validation.ProductInput{}, nil, noop, formError(err)
		}
		return inputFromForm(r.PostForm), nil, noop, nil

	default:
		var body map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return validation.ProductInput{}, nil, noop, formError(err)
		}
		in, err := inputFromJSON(body)
		return in, nil, noop, err
	}
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.WrapError(err, domain.ETOOLARGE, "product.read", "Request body too large")
	}
	return domain.WrapError(err, domain.EINVALID, "product.read", handler.ErrInvalidBody.Message)
}

// Product fields accepted from forms and JSON bodies.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCategory    = "category"
	fieldSubCategory = "subCategory"
	fieldSizes       = "sizes"
	fieldBestseller  = "bestseller"
	fieldStock       = "stock"
)

func inputFromForm(values map[string][]string) validation.ProductInput {
	get := func(key string) *string {
		if vs, ok := values[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	in := validation.ProductInput{
		Name:        get(fieldName),
		Description: get(fieldDescription),
		Price:       get(fieldPrice),
		Category:    get(fieldCategory),
		SubCategory: get(fieldSubCategory),
		Bestseller:  get(fieldBestseller),
		Stock:       get(fieldStock),
	}

	// Repeated sizes fields form a list; a single one holds a JSON array.
	switch sizes := values[fieldSizes]; {
	case len(sizes) > 1:
		in.Sizes = sizes
	case len(sizes) == 1:
		in.SizesJSON = &sizes[0]
	}
	return in
}

func inputFromJSON(body map[string]any) (validation.ProductInput, error) {
	var in validation.ProductInput
	fields := map[string]**string{
		fieldName:        &in.Name,
		fieldDescription: &in.Description,
		fieldPrice:       &in.Price,
		fieldCategory:    &in.Category,
		fieldSubCategory: &in.SubCategory,
		fieldBestseller:  &in.Bestseller,
		fieldStock:       &in.Stock,
	}

	for key, dst := range fields {
		raw, ok := body[key]
		if !ok || raw == nil {
			continue
		}
		var s string
		switch v := raw.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		case bool:
			s = strconv.FormatBool(v)
		default:
			return in, domain.Invalid("product.read", "Invalid value for "+key)
		}
		*dst = &s
	}

	switch sizes := body[fieldSizes].(type) {
	case nil:
	case string:
		in.SizesJSON = &sizes
	case []any:
		in.Sizes = make([]string, 0, len(sizes))
		for _, s := range sizes {
			str, ok := s.(string)
			if !ok {
				return in, domain.Invalid("product.read", "Sizes must be a list")
			}
			in.Sizes = append(in.Sizes, str)
		}
	default:
		return in, domain.Invalid("product.read", "Sizes must be a list")
	}

	return in, nil
}

func uploads(files []*multipart.FileHeader) []service.ImageUpload {
	out := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		out = append(out, service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				return f, nil
			},
		})
	}
	return out
}
