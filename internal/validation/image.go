package validation

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/dukerupert/forever/internal/domain"
)

// MaxImageSize is the per-file upload limit.
const MaxImageSize = 5 << 20

// ImageFields are the multipart field names of the product image slots.
var ImageFields = [domain.MaxProductImages]string{"image1", "image2", "image3", "image4"}

// CheckImage accepts image/* files up to MaxImageSize.
func CheckImage(fh *multipart.FileHeader) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return domain.Invalid("product.image", "Only image files are allowed")
	}
	if fh.Size > MaxImageSize {
		return domain.Errorf(domain.ETOOLARGE, "product.image", "Image %s exceeds the %dMB limit", fh.Filename, MaxImageSize>>20)
	}
	return nil
}

// ImageFiles collects the filled image slots of a multipart form in slot
// order and checks each one.
func ImageFiles(form *multipart.Form) ([]*multipart.FileHeader, error) {
	if form == nil {
		return nil, nil
	}

	var files []*multipart.FileHeader
	for _, field := range ImageFields {
		fhs := form.File[field]
		if len(fhs) == 0 {
			continue
		}
		if len(fhs) > 1 {
			return nil, domain.Invalid("product.image", fmt.Sprintf("Only one file allowed for %s", field))
		}
		if err := CheckImage(fhs[0]); err != nil {
			return nil, err
		}
		files = append(files, fhs[0])
	}
	return files, nil
}
