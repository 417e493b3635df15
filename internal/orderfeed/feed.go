// Package orderfeed presents a filterable, paginated order list merged with
// the tenant's live push stream, and applies staff status transitions.
package orderfeed

import (
	"context"
	"fmt"
	"sync"

	"mataam/internal/model"
	"mataam/internal/pricing"
	"mataam/internal/session"

	"github.com/rs/zerolog"
)

// API is the slice of the remote contract the feed depends on.
type API interface {
	SearchOrders(ctx context.Context, req model.OrderSearchRequest) (*model.OrderPage, error)
	GetMyOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrderForUser(ctx context.Context, id int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	ReprintOrder(ctx context.Context, id int64) error
	DecodeOrderPayload(data []byte) (*model.Order, error)
}

// Notifier carries user-facing feedback out of the feed.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Confirm(msg string) bool
}

const (
	msgGenericError  = "حدث خطأ، يرجى المحاولة مرة أخرى"
	msgConfirmStatus = "هل تريد تغيير حالة الطلب إلى %s؟"
	msgConfirmCancel = "هل تريد إلغاء هذا الطلب؟"
	msgStatusUpdated = "تم تحديث حالة الطلب"
	msgReprintSent   = "تم إرسال أمر الطباعة"
)

// statusLabels renders the status enumeration for the all-Arabic message
// set. An unknown status falls through to its raw value.
var statusLabels = map[model.OrderStatus]string{
	model.StatusPending:        "قيد الانتظار",
	model.StatusConfirmed:      "مؤكد",
	model.StatusPreparing:      "قيد التحضير",
	model.StatusOutForDelivery: "قيد التوصيل",
	model.StatusDelivered:      "تم التوصيل",
	model.StatusCancelled:      "ملغي",
}

func statusLabel(status model.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// Feed holds one order page's state. The socket reader runs on its own
// goroutine, so all list state is guarded by the mutex.
type Feed struct {
	api      API
	sess     *session.Session
	notifier Notifier
	logger   zerolog.Logger
	pageSize int

	mu         sync.Mutex
	orders     []model.Order
	totalItems int
	totalPages int
	page       int
	filter     Filter
	detail     *model.Order
}

// New creates an order feed for the session's role.
func New(apiClient API, sess *session.Session, notifier Notifier, pageSize int, logger zerolog.Logger) *Feed {
	return &Feed{
		api:      apiClient,
		sess:     sess,
		notifier: notifier,
		logger:   logger.With().Str("component", "orderfeed").Logger(),
		pageSize: pageSize,
		page:     1,
	}
}

// SetFilter replaces the filter and resets to the first page. The caller
// re-issues the query with Refresh.
func (f *Feed) SetFilter(filter Filter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	f.page = 1
}

// Refresh re-issues the current query. Elevated roles use the paginated
// multi-tenant search; everyone else gets their own orders with only the
// status filter applied.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	filter := f.filter
	page := f.page
	f.mu.Unlock()

	if !f.sess.Role().Elevated() {
		orders, err := f.api.GetMyOrders(ctx, filter.Status)
		if err != nil {
			f.logger.Error().Err(err).Msg("failed to fetch orders")
			f.notifier.Error(msgGenericError)
			return err
		}

		f.mu.Lock()
		f.orders = orders
		f.totalItems = len(orders)
		f.totalPages = 1
		f.page = 1
		f.mu.Unlock()
		return nil
	}

	result, err := f.api.SearchOrders(ctx, model.OrderSearchRequest{
		PageNumber: page,
		PageSize:   f.pageSize,
		Filters:    filter.Compile(f.sess.Role()),
	})
	if err != nil {
		f.logger.Error().Err(err).Int("page", page).Msg("failed to search orders")
		f.notifier.Error(msgGenericError)
		return err
	}

	f.mu.Lock()
	f.orders = result.Data
	f.totalItems = result.TotalItems
	f.totalPages = result.TotalPages
	f.mu.Unlock()

	f.logger.Debug().
		Int("page", page).
		Int("total_items", result.TotalItems).
		Msg("orders refreshed")
	return nil
}

// GoToPage navigates to an explicit page and re-issues the query.
func (f *Feed) GoToPage(ctx context.Context, page int) error {
	f.mu.Lock()
	if page < 1 {
		page = 1
	}
	if f.totalPages > 0 && page > f.totalPages {
		page = f.totalPages
	}
	f.page = page
	f.mu.Unlock()

	return f.Refresh(ctx)
}

// NextPage advances one page, if there is one.
func (f *Feed) NextPage(ctx context.Context) error {
	f.mu.Lock()
	page := f.page + 1
	f.mu.Unlock()
	return f.GoToPage(ctx, page)
}

// PrevPage goes back one page, if there is one.
func (f *Feed) PrevPage(ctx context.Context) error {
	f.mu.Lock()
	page := f.page - 1
	f.mu.Unlock()
	return f.GoToPage(ctx, page)
}

// Orders returns a snapshot of the current list.
func (f *Feed) Orders() []model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Order, len(f.orders))
	copy(out, f.orders)
	return out
}

// TotalItems returns the displayed total count.
func (f *Feed) TotalItems() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalItems
}

// Page returns the current page number.
func (f *Feed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// Window returns the pagination control's page numbers.
func (f *Feed) Window() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return PageWindow(f.page, f.totalPages)
}

// Apply merges one pushed order into the list. An order already present by
// id or number is shallow-merged in place; a new one is prepended and the
// total count incremented. Reapplying the same push is a no-op merge.
func (f *Feed) Apply(order *model.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.detail != nil && sameOrder(f.detail, order) {
		mergeOrder(f.detail, order)
	}

	for i := range f.orders {
		if sameOrder(&f.orders[i], order) {
			mergeOrder(&f.orders[i], order)
			return
		}
	}

	f.orders = append([]model.Order{*order}, f.orders...)
	f.totalItems++
	f.logger.Debug().Int64("order_id", order.ID).Str("number", order.Number).Msg("order pushed")
}

// UpdateStatus confirms, PUTs the new status, mirrors it locally, then
// re-fetches the list to reconcile.
func (f *Feed) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}

	if !f.notifier.Confirm(fmt.Sprintf(msgConfirmStatus, statusLabel(status))) {
		return nil
	}

	return f.applyStatus(ctx, id, status)
}

// Cancel is a shortcut to the cancelled status with its own confirmation.
func (f *Feed) Cancel(ctx context.Context, id int64) error {
	if !f.notifier.Confirm(msgConfirmCancel) {
		return nil
	}

	return f.applyStatus(ctx, id, model.StatusCancelled)
}

func (f *Feed) applyStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if err := f.api.UpdateOrderStatus(ctx, id, status); err != nil {
		f.logger.Warn().Err(err).Int64("order_id", id).Msg("status update failed")
		f.notifier.Error(msgGenericError)
		return err
	}

	f.mu.Lock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			break
		}
	}
	if f.detail != nil && f.detail.ID == id {
		f.detail.Status = status
	}
	f.mu.Unlock()

	f.notifier.Info(msgStatusUpdated)
	return f.Refresh(ctx)
}

// Reprint is fire and forget; the only observable effect is the toast.
func (f *Feed) Reprint(ctx context.Context, id int64) error {
	if err := f.api.ReprintOrder(ctx, id); err != nil {
		f.logger.Warn().Err(err).Int64("order_id", id).Msg("reprint failed")
		f.notifier.Error(msgGenericError)
		return err
	}

	f.notifier.Info(msgReprintSent)
	return nil
}

// Detail fetches one order through the role-gated endpoint, recomputes the
// per-line and aggregate prices from the snapshot fields, and opens it as
// the detail panel.
func (f *Feed) Detail(ctx context.Context, id int64) (*model.Order, error) {
	var (
		order *model.Order
		err   error
	)
	if f.sess.Role().Elevated() {
		order, err = f.api.GetOrder(ctx, id)
	} else {
		order, err = f.api.GetOrderForUser(ctx, id)
	}
	if err != nil {
		f.logger.Error().Err(err).Int64("order_id", id).Msg("failed to fetch order")
		f.notifier.Error(msgGenericError)
		return nil, err
	}

	for i := range order.Items {
		pricing.RecalculateLine(&order.Items[i])
	}
	totals := pricing.OrderTotals(order.Items, order.DeliveryCost)
	order.TotalWithoutFee = totals.WithoutFee
	order.TotalDiscount = totals.Discount
	order.TotalWithFee = totals.WithFee

	f.mu.Lock()
	f.detail = order
	f.mu.Unlock()
	return cloneOrder(order), nil
}

// OpenDetail returns a snapshot of the currently open detail panel, if any.
func (f *Feed) OpenDetail() *model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneOrder(f.detail)
}

// CloseDetail closes the detail panel.
func (f *Feed) CloseDetail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detail = nil
}

// cloneOrder returns a caller-owned copy detached from the feed's state.
// The socket reader mutates the canonical order in place, so escaped
// pointers must never alias it.
func cloneOrder(o *model.Order) *model.Order {
	if o == nil {
		return nil
	}

	out := *o
	if o.DeliveryFee != nil {
		fee := *o.DeliveryFee
		out.DeliveryFee = &fee
	}
	if len(o.Items) > 0 {
		out.Items = make([]model.OrderLine, len(o.Items))
		copy(out.Items, o.Items)
		for i := range out.Items {
			if len(o.Items[i].Options) > 0 {
				out.Items[i].Options = make([]model.SelectedOption, len(o.Items[i].Options))
				copy(out.Items[i].Options, o.Items[i].Options)
			}
		}
	}
	return &out
}

func sameOrder(a, b *model.Order) bool {
	if a.ID != 0 && a.ID == b.ID {
		return true
	}
	return a.Number != "" && a.Number == b.Number
}

// mergeOrder shallow-merges src's present fields into dst; new data wins
// per field, absent fields keep dst's value.
func mergeOrder(dst, src *model.Order) {
	if src.ID != 0 {
		dst.ID = src.ID
	}
	if src.Number != "" {
		dst.Number = src.Number
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.UserID != 0 {
		dst.UserID = src.UserID
	}
	if src.UserName != "" {
		dst.UserName = src.UserName
	}
	if src.UserPhone != "" {
		dst.UserPhone = src.UserPhone
	}
	if src.BranchID != 0 {
		dst.BranchID = src.BranchID
	}
	if src.BranchName != "" {
		dst.BranchName = src.BranchName
	}
	if src.DeliveryFee != nil {
		dst.DeliveryFee = src.DeliveryFee
	}
	if src.LocationID != 0 {
		dst.LocationID = src.LocationID
	}
	if src.Notes != "" {
		dst.Notes = src.Notes
	}
	if len(src.Items) > 0 {
		dst.Items = src.Items
	}
	if src.TotalWithoutFee != 0 {
		dst.TotalWithoutFee = src.TotalWithoutFee
	}
	if src.TotalDiscount != 0 {
		dst.TotalDiscount = src.TotalDiscount
	}
	if src.DeliveryCost != 0 {
		dst.DeliveryCost = src.DeliveryCost
	}
	if src.TotalWithFee != 0 {
		dst.TotalWithFee = src.TotalWithFee
	}
	if !src.CreatedAt.IsZero() {
		dst.CreatedAt = src.CreatedAt
	}
	if !src.UpdatedAt.IsZero() {
		dst.UpdatedAt = src.UpdatedAt
	}
}
