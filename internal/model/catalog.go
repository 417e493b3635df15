package model

// Branch is a restaurant branch a customer orders from.
type Branch struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Open   bool   `json:"open"`
}

// FeeKind separates delivery-area fees from in-branch pickup fees.
type FeeKind string

const (
	FeeArea   FeeKind = "area"
	FeePickup FeeKind = "pickup"
)

// DeliveryFee is a priced area-or-pickup entry scoped to a branch.
type DeliveryFee struct {
	ID       int64   `json:"id"`
	BranchID int64   `json:"branchId"`
	Area     string  `json:"area,omitempty"`
	Kind     FeeKind `json:"kind"`
	Price    float64 `json:"price"`
	Active   bool    `json:"active"`
}

// Location is a customer's saved delivery address.
type Location struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Details   string `json:"details,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

// DeliveryMode is the mutually exclusive delivery-or-pickup choice.
type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

// DeliveryContext holds the checkout selections. Delivery mode requires a
// saved address and an area fee; pickup mode requires a branch whose pickup
// fee is resolved with a fallback to any pickup fee record.
type DeliveryContext struct {
	Mode       DeliveryMode `json:"mode"`
	BranchID   int64        `json:"branchId"`
	LocationID int64        `json:"locationId,omitempty"`
	AreaFeeID  int64        `json:"areaFeeId,omitempty"`
}
