package api

import (
	"context"
	"fmt"
	"net/http"

	"mataam/internal/model"
)

// GetBranches lists all branches.
func (c *Client) GetBranches(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	if err := c.do(ctx, http.MethodGet, "/api/Branches/GetList", nil, &branches); err != nil {
		return nil, fmt.Errorf("failed to fetch branches: %w", err)
	}
	return branches, nil
}

// GetDeliveryFees lists delivery fee records, optionally scoped to a branch.
// Pass 0 for all branches.
func (c *Client) GetDeliveryFees(ctx context.Context, branchID int64) ([]model.DeliveryFee, error) {
	path := "/api/DeliveryFees/GetAll"
	if branchID != 0 {
		path = fmt.Sprintf("%s?branchId=%d", path, branchID)
	}

	var raw []rawDeliveryFee
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch delivery fees: %w", err)
	}

	fees := make([]model.DeliveryFee, 0, len(raw))
	for i := range raw {
		fees = append(fees, *normalizeDeliveryFee(&raw[i]))
	}
	return fees, nil
}

// GetLocations lists the user's saved delivery addresses.
func (c *Client) GetLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	if err := c.do(ctx, http.MethodGet, "/api/Locations/GetAllForUser", nil, &locations); err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	return locations, nil
}
