package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"mataam/internal/model"
)

// CreateOrder submits the checkout payload. Validation failures come back as
// *model.APIError with the code table of the order endpoints.
func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	var raw rawOrder
	if err := c.do(ctx, http.MethodPost, "/api/Orders/Add", req, &raw); err != nil {
		return nil, err
	}

	order := c.normalizeOrder(raw)
	return &order, nil
}

// SearchOrders runs the paginated multi-tenant order query. Date-range filter
// bounds are converted back into the server's clock before submission.
func (c *Client) SearchOrders(ctx context.Context, req model.OrderSearchRequest) (*model.OrderPage, error) {
	egress := req
	egress.Filters = make([]model.PropertyFilter, len(req.Filters))
	for i, f := range req.Filters {
		if f.Range != nil {
			f.Range = &model.DateRange{
				From: c.clock.ToServer(f.Range.From),
				To:   c.clock.ToServer(f.Range.To),
			}
		}
		egress.Filters[i] = f
	}

	var resp struct {
		Data       []rawOrder `json:"data"`
		TotalItems int        `json:"totalItems"`
		TotalPages int        `json:"totalPages"`
		PageNumber int        `json:"pageNumber"`
		PageSize   int        `json:"pageSize"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/Orders/GetAllWithPagination", egress, &resp); err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}

	orders := make([]model.Order, 0, len(resp.Data))
	for _, r := range resp.Data {
		orders = append(orders, c.normalizeOrder(r))
	}

	return &model.OrderPage{
		Data:       orders,
		TotalItems: resp.TotalItems,
		TotalPages: resp.TotalPages,
		PageNumber: resp.PageNumber,
		PageSize:   resp.PageSize,
	}, nil
}

// GetMyOrders is the non-elevated variant: the caller's own orders with only
// a status filter.
func (c *Client) GetMyOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	path := "/api/Orders/GetAllForUser"
	if status != "" {
		path = path + "?status=" + url.QueryEscape(string(status))
	}

	var raw []rawOrder
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch my orders: %w", err)
	}

	orders := make([]model.Order, 0, len(raw))
	for _, r := range raw {
		orders = append(orders, c.normalizeOrder(r))
	}
	return orders, nil
}

// GetOrder fetches one order through the staff endpoint.
func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return c.fetchOrder(ctx, fmt.Sprintf("/api/Orders/Get/%d", id))
}

// GetOrderForUser fetches one of the caller's own orders.
func (c *Client) GetOrderForUser(ctx context.Context, id int64) (*model.Order, error) {
	return c.fetchOrder(ctx, fmt.Sprintf("/api/Orders/GetForUser/%d", id))
}

func (c *Client) fetchOrder(ctx context.Context, path string) (*model.Order, error) {
	var raw rawOrder
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	order := c.normalizeOrder(raw)
	return &order, nil
}

// UpdateOrderStatus sets an order's status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	body := struct {
		OrderStatus model.OrderStatus `json:"orderStatus"`
	}{OrderStatus: status}

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Orders/UpdateStatus/%d", id), body, nil); err != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, err)
	}
	return nil
}

// ReprintOrder asks the server to reprint an order ticket. Fire and forget;
// the only observable result is success or failure.
func (c *Client) ReprintOrder(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/Orders/ReprintOrder/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to reprint order %d: %w", id, err)
	}
	return nil
}
