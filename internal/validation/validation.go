// Package validation checks request payloads before they reach the services.
//
// Validators return operational domain errors carrying the first failure's
// message, so a handler can pass them straight to the error formatter.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in FieldError.Field().
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// quantity accepts a json.Number holding a non-negative integer.
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		n, ok := fl.Field().Interface().(json.Number)
		if !ok {
			return false
		}
		q, err := n.Int64()
		return err == nil && q >= 0
	})

	return v
}

// messages maps "field.tag" to the client-facing message for that failure.
type messages map[string]string

// check validates s and translates the first failing field into an
// EINVALID error using msgs. Unmapped failures fall back to fallback.
func check(op string, s any, msgs messages, fallback string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Internal(err, op, "validation failed")
	}

	fe := verrs[0]
	if msg, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return domain.Invalid(op, msg)
	}
	if msg, ok := msgs[fe.Field()]; ok {
		return domain.Invalid(op, msg)
	}
	return domain.Invalid(op, fallback)
}
