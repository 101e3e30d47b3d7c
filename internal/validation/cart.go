package validation

import (
	"encoding/json"

	"github.com/dukerupert/forever/internal/domain"
)

// CartRequest is the body of POST /cart/add and PUT /cart/update.
type CartRequest struct {
	ItemID   string       `json:"itemId" validate:"required"`
	Size     string       `json:"size"`
	Quantity *json.Number `json:"quantity" validate:"omitempty,quantity"`
}

// QuantityValue returns the parsed quantity and whether one was sent.
// Call only after a successful Validate.
func (r CartRequest) QuantityValue() (int, bool) {
	if r.Quantity == nil {
		return 0, false
	}
	q, err := r.Quantity.Int64()
	if err != nil {
		return 0, false
	}
	return int(q), true
}

var cartMessages = messages{
	"itemId":   "Product ID is required",
	"quantity": "Invalid quantity",
}

// ValidateCartAdd checks an add-to-cart body.
func ValidateCartAdd(r CartRequest) error {
	return check("cart.validate", r, cartMessages, "Invalid cart request")
}

// ValidateCartUpdate checks an update body; quantity is mandatory.
func ValidateCartUpdate(r CartRequest) error {
	if r.ItemID == "" {
		return domain.Invalid("cart.validate", cartMessages["itemId"])
	}
	if r.Quantity == nil {
		return domain.Invalid("cart.validate", "Quantity is required for updates")
	}
	return ValidateCartAdd(r)
}
