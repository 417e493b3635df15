package model

import "time"

// DiscountKind distinguishes percentage offers from fixed-amount offers.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// ItemOffer is a time-windowed discount rule attached to a menu item.
// StartAt and EndAt have already been corrected for the server clock skew
// by the API layer.
type ItemOffer struct {
	ID         int64        `json:"id"`
	MenuItemID int64        `json:"menuItemId"`
	Kind       DiscountKind `json:"kind"`
	Amount     float64      `json:"amount"`
	Enabled    bool         `json:"enabled"`
	StartAt    time.Time    `json:"startAt"`
	EndAt      time.Time    `json:"endAt"`
	BranchIDs  []int64      `json:"branchIds,omitempty"` // empty means all branches
}

// ActiveAt reports whether the offer is enabled and inside its time window.
func (o *ItemOffer) ActiveAt(now time.Time) bool {
	if o == nil || !o.Enabled {
		return false
	}
	if now.Before(o.StartAt) || now.After(o.EndAt) {
		return false
	}
	return true
}

// AppliesToBranch reports whether the offer covers the given branch.
// An empty branch set means the offer covers every branch.
func (o *ItemOffer) AppliesToBranch(branchID int64) bool {
	if o == nil {
		return false
	}
	if len(o.BranchIDs) == 0 {
		return true
	}
	for _, id := range o.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
