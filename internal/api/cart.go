package api

import (
	"context"
	"fmt"
	"net/http"

	"mataam/internal/model"
)

// GetCartItems fetches the user's cart lines in canonical shape. Derived
// prices are left zero; callers recompute them through the pricing package.
func (c *Client) GetCartItems(ctx context.Context) ([]model.CartItem, error) {
	var raw []rawCartItem
	if err := c.do(ctx, http.MethodGet, "/api/CartItems/GetAll", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}

	items := make([]model.CartItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, c.normalizeCartItem(r))
	}
	return items, nil
}

// UpdateCartItem replaces a cart line's note and selected option set.
func (c *Client) UpdateCartItem(ctx context.Context, id int64, note string, optionIDs []int64) error {
	body := struct {
		Note    string  `json:"note"`
		Options []int64 `json:"options"`
	}{Note: note, Options: optionIDs}

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/CartItems/Update/%d", id), body, nil); err != nil {
		return fmt.Errorf("failed to update cart item %d: %w", id, err)
	}
	return nil
}

// UpdateCartItemQuantity sets a cart line's quantity.
func (c *Client) UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/CartItems/UpdateQuantity/%d", id), body, nil); err != nil {
		return fmt.Errorf("failed to update quantity of cart item %d: %w", id, err)
	}
	return nil
}

// DeleteCartItem removes a cart line server-side.
func (c *Client) DeleteCartItem(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/CartItems/Delete/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, err)
	}
	return nil
}

// GetMenuItem re-fetches the authoritative catalogue record for an item,
// used to rebuild the add-on selection when a cart line is edited.
func (c *Client) GetMenuItem(ctx context.Context, id int64) (*model.MenuItem, error) {
	var raw rawMenuItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/MenuItems/Get/%d", id), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch menu item %d: %w", id, err)
	}

	item := c.normalizeMenuItem(raw)
	return &item, nil
}
