package model

import "time"

// Order is the staff-facing view of a placed order. Line items are price
// snapshots frozen at order-creation time; later menu edits never touch them.
type Order struct {
	ID          int64        `json:"id"`
	Number      string       `json:"number"`
	Status      OrderStatus  `json:"status"`
	UserID      int64        `json:"userId"`
	UserName    string       `json:"userName,omitempty"`
	UserPhone   string       `json:"userPhone,omitempty"`
	BranchID    int64        `json:"branchId"`
	BranchName  string       `json:"branchName,omitempty"`
	DeliveryFee *DeliveryFee `json:"deliveryFee,omitempty"`
	LocationID  int64        `json:"locationId,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Items       []OrderLine  `json:"items,omitempty"`

	TotalWithoutFee float64 `json:"totalWithoutFee"`
	TotalDiscount   float64 `json:"totalDiscount"`
	DeliveryCost    float64 `json:"deliveryCost"`
	TotalWithFee    float64 `json:"totalWithFee"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderLine is an immutable price snapshot of one ordered item.
type OrderLine struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	BasePrice float64          `json:"basePrice"`
	Discount  float64          `json:"discount"` // per-line amount, already resolved
	Quantity  int              `json:"quantity"`
	Options   []SelectedOption `json:"options,omitempty"`
	LineTotal float64          `json:"lineTotal"`
}

// OrderRequest is the checkout submission payload.
type OrderRequest struct {
	BranchID      int64  `json:"branchId"`
	DeliveryFeeID int64  `json:"deliveryFeeId"`
	Notes         string `json:"notes,omitempty"`
	LocationID    int64  `json:"locationId,omitempty"`
}

// DateRange bounds a range filter. Zero values mean unbounded on that side.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// PropertyFilter is the generic filter clause of the paginated order search.
type PropertyFilter struct {
	PropertyName  string     `json:"propertyName"`
	PropertyValue string     `json:"propertyValue,omitempty"`
	Range         *DateRange `json:"range,omitempty"`
}

// OrderSearchRequest is the paginated multi-tenant order query payload.
type OrderSearchRequest struct {
	PageNumber int              `json:"pageNumber"`
	PageSize   int              `json:"pageSize"`
	Filters    []PropertyFilter `json:"filters,omitempty"`
}

// OrderPage is one page of the paginated order search response.
type OrderPage struct {
	Data       []Order `json:"data"`
	TotalItems int     `json:"totalItems"`
	TotalPages int     `json:"totalPages"`
	PageNumber int     `json:"pageNumber"`
	PageSize   int     `json:"pageSize"`
}
