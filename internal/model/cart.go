package model

// MaxNoteLength bounds the free-text note attached to a cart line.
const MaxNoteLength = 500

// CartItem is the locally rendered view of one cart line. UnitPrice,
// OptionsTotal and LineTotal are derived values; they are always recomputed
// through the pricing package from the fields above them and never trusted
// from a previous render.
type CartItem struct {
	ID         int64            `json:"id"`
	CartID     int64            `json:"cartId"`
	MenuItemID int64            `json:"menuItemId"`
	Name       string           `json:"name"`
	BasePrice  float64          `json:"basePrice"`
	Offer      *ItemOffer       `json:"offer,omitempty"`
	Quantity   int              `json:"quantity"`
	Options    []SelectedOption `json:"options,omitempty"`
	Note       string           `json:"note,omitempty"`

	UnitPrice    float64 `json:"unitPrice"`
	OptionsTotal float64 `json:"optionsTotal"`
	LineTotal    float64 `json:"lineTotal"`
}

// PerUnitOptionsPrice returns the options cost carried by a single unit.
// Quantity change recomputes OptionsTotal proportionally from this value.
func (ci *CartItem) PerUnitOptionsPrice() float64 {
	if ci.Quantity <= 0 {
		return 0
	}
	return ci.OptionsTotal / float64(ci.Quantity)
}

// SelectedOption is one chosen add-on on a cart line or order line.
type SelectedOption struct {
	ID      int64   `json:"id"`
	GroupID int64   `json:"groupId"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}
