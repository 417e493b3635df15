// Package cart keeps the locally rendered cart consistent with server cart
// state, computes prices, and drives checkout. The server is the source of
// truth; local state only ever mirrors a server-confirmed transform.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"mataam/internal/model"
	"mataam/internal/pricing"

	"github.com/rs/zerolog"
)

// API is the slice of the remote contract the reconciler depends on.
type API interface {
	GetCartItems(ctx context.Context) ([]model.CartItem, error)
	UpdateCartItem(ctx context.Context, id int64, note string, optionIDs []int64) error
	UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error
	DeleteCartItem(ctx context.Context, id int64) error
	GetMenuItem(ctx context.Context, id int64) (*model.MenuItem, error)
	GetBranches(ctx context.Context) ([]model.Branch, error)
	GetDeliveryFees(ctx context.Context, branchID int64) ([]model.DeliveryFee, error)
	GetLocations(ctx context.Context) ([]model.Location, error)
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// Reconciler holds one cart page's state.
type Reconciler struct {
	api      API
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time

	cartID    int64
	items     []model.CartItem
	branches  []model.Branch
	fees      []model.DeliveryFee
	locations []model.Location
	delivery  model.DeliveryContext
	notes     string
}

// NewReconciler creates a cart reconciler.
func NewReconciler(apiClient API, notifier Notifier, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		api:      apiClient,
		notifier: notifier,
		logger:   logger.With().Str("component", "cart").Logger(),
		now:      time.Now,
	}
}

// Load fetches the cart and rebuilds the view-models. On failure the user
// sees a localized error and the cart renders empty; no retry is automatic.
func (r *Reconciler) Load(ctx context.Context) {
	items, err := r.api.GetCartItems(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load cart")
		r.notifier.Error(msgGenericError)
		r.items = nil
		r.cartID = 0
		return
	}

	now := r.now()
	for i := range items {
		pricing.Recalculate(&items[i], now)
	}

	r.items = items
	r.cartID = 0
	if len(items) > 0 {
		r.cartID = items[0].CartID
	}

	r.logger.Debug().Int("item_count", len(items)).Int64("cart_id", r.cartID).Msg("cart loaded")
}

// LoadCatalog fetches the branch list, fee records and saved addresses the
// checkout selections draw from.
func (r *Reconciler) LoadCatalog(ctx context.Context) {
	branches, err := r.api.GetBranches(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load branches")
		r.notifier.Error(msgGenericError)
		return
	}

	fees, err := r.api.GetDeliveryFees(ctx, 0)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load delivery fees")
		r.notifier.Error(msgGenericError)
		return
	}

	locations, err := r.api.GetLocations(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load locations")
		r.notifier.Error(msgGenericError)
		return
	}

	r.branches = branches
	r.fees = fees
	r.locations = locations
}

// Items returns the current cart lines.
func (r *Reconciler) Items() []model.CartItem { return r.items }

// CartID returns the owning cart id captured from the first loaded line.
func (r *Reconciler) CartID() int64 { return r.cartID }

// Locations returns the loaded saved addresses.
func (r *Reconciler) Locations() []model.Location { return r.locations }

// Branches returns the loaded branch list.
func (r *Reconciler) Branches() []model.Branch { return r.branches }

// SetDelivery replaces the delivery/pickup selections.
func (r *Reconciler) SetDelivery(dc model.DeliveryContext) { r.delivery = dc }

// SetNotes sets the order-level notes submitted at checkout.
func (r *Reconciler) SetNotes(notes string) { r.notes = notes }

// ChangeQuantity updates a line's quantity server-side, then mirrors the
// confirmed change locally, recomputing the options total proportionally
// from the previous per-unit options price. Quantities below 1 are a no-op.
func (r *Reconciler) ChangeQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}

	idx := r.findItem(itemID)
	if idx < 0 {
		return fmt.Errorf("cart item %d not found", itemID)
	}

	if err := r.api.UpdateCartItemQuantity(ctx, itemID, quantity); err != nil {
		r.logger.Warn().Err(err).Int64("item_id", itemID).Msg("quantity update failed")
		r.notifier.Error(msgGenericError)
		// The local guess is stale once the server refused; refetch the
		// authoritative state instead of trusting it.
		r.Load(ctx)
		return err
	}

	item := &r.items[idx]
	perUnit := item.PerUnitOptionsPrice()
	item.Quantity = quantity
	item.OptionsTotal = perUnit * float64(quantity)
	item.UnitPrice = pricing.UnitPrice(item.BasePrice, item.Offer, r.now())
	item.LineTotal = pricing.LineTotal(item.UnitPrice, quantity, item.OptionsTotal, 0)

	return nil
}

// UpdateNote replaces a line's free-text note, keeping its current option
// selection. Overlong notes block before any network call.
func (r *Reconciler) UpdateNote(ctx context.Context, itemID int64, note string) error {
	idx := r.findItem(itemID)
	if idx < 0 {
		return fmt.Errorf("cart item %d not found", itemID)
	}

	if utf8.RuneCountInString(note) > model.MaxNoteLength {
		r.notifier.Warn(msgNoteTooLong)
		return fmt.Errorf("note exceeds %d characters", model.MaxNoteLength)
	}

	item := &r.items[idx]
	ids := make([]int64, 0, len(item.Options))
	for _, opt := range item.Options {
		ids = append(ids, opt.ID)
	}

	if err := r.api.UpdateCartItem(ctx, itemID, note, ids); err != nil {
		r.logger.Warn().Err(err).Int64("item_id", itemID).Msg("note update failed")
		r.notifier.Error(msgGenericError)
		return err
	}

	item.Note = note
	return nil
}

// Remove confirms, deletes the line server-side and drops it locally.
func (r *Reconciler) Remove(ctx context.Context, itemID int64) error {
	idx := r.findItem(itemID)
	if idx < 0 {
		return fmt.Errorf("cart item %d not found", itemID)
	}

	if !r.notifier.Confirm(msgConfirmRemove) {
		return nil
	}

	if err := r.api.DeleteCartItem(ctx, itemID); err != nil {
		r.logger.Warn().Err(err).Int64("item_id", itemID).Msg("delete failed")
		r.notifier.Error(msgGenericError)
		return err
	}

	r.items = append(r.items[:idx], r.items[idx+1:]...)
	return nil
}

// ResolveFee picks the fee record for the delivery context: the selected
// area fee in delivery mode; in pickup mode the selected branch's pickup fee,
// falling back to any pickup fee record, else no record and a zero fee.
func ResolveFee(dc model.DeliveryContext, fees []model.DeliveryFee) (*model.DeliveryFee, float64) {
	switch dc.Mode {
	case model.ModeDelivery:
		for i := range fees {
			if fees[i].ID == dc.AreaFeeID {
				return &fees[i], fees[i].Price
			}
		}
		return nil, 0

	case model.ModePickup:
		var fallback *model.DeliveryFee
		for i := range fees {
			if fees[i].Kind != model.FeePickup {
				continue
			}
			if fees[i].BranchID == dc.BranchID {
				return &fees[i], fees[i].Price
			}
			if fallback == nil {
				fallback = &fees[i]
			}
		}
		if fallback != nil {
			return fallback, fallback.Price
		}
		return nil, 0
	}

	return nil, 0
}

// Totals sums the cart for display: line totals plus the resolved fee.
func (r *Reconciler) Totals() pricing.Totals {
	var subtotal float64
	for i := range r.items {
		subtotal += r.items[i].LineTotal
	}

	_, fee := ResolveFee(r.delivery, r.fees)
	return pricing.Totals{
		WithoutFee: subtotal,
		Fee:        fee,
		WithFee:    subtotal + fee,
	}
}

// CheckoutOutcome reports what a checkout attempt produced.
type CheckoutOutcome int

const (
	// CheckoutBlocked means a client-side precondition failed; nothing was
	// sent to the server.
	CheckoutBlocked CheckoutOutcome = iota
	// CheckoutFailed means the request did not complete (transport failure).
	CheckoutFailed
	// CheckoutRejected means the server refused with validation errors.
	CheckoutRejected
	// CheckoutNeedsPhoneOrAddress means the dedicated remediation prompt ran.
	CheckoutNeedsPhoneOrAddress
	// CheckoutPlaced means the order was created.
	CheckoutPlaced
)

// CheckoutResult is the outcome of one checkout attempt.
type CheckoutResult struct {
	Outcome     CheckoutOutcome
	Message     string
	Order       *model.Order
	Remediation Remediation
}

// Checkout walks the precondition gates in order; the first failing gate
// warns and aborts without any network call. All retries are user-initiated.
func (r *Reconciler) Checkout(ctx context.Context) CheckoutResult {
	if msg, ok := r.checkGates(); !ok {
		r.notifier.Warn(msg)
		return CheckoutResult{Outcome: CheckoutBlocked, Message: msg}
	}

	feeRecord, _ := ResolveFee(r.delivery, r.fees)
	req := model.OrderRequest{
		BranchID:   r.delivery.BranchID,
		Notes:      r.notes,
		LocationID: r.delivery.LocationID,
	}
	if feeRecord != nil {
		req.DeliveryFeeID = feeRecord.ID
	}

	order, err := r.api.CreateOrder(ctx, req)
	if err != nil {
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			r.logger.Error().Err(err).Msg("checkout request failed")
			r.notifier.Error(msgGenericError)
			return CheckoutResult{Outcome: CheckoutFailed, Message: msgGenericError}
		}

		// Checkout cannot proceed without a phone or a default address, so
		// this code gets a remediation prompt instead of a plain error.
		if apiErr.HasCode(model.ErrCodeMissingPhoneOrAddress) {
			choice := r.notifier.PhoneOrAddressPrompt()
			return CheckoutResult{Outcome: CheckoutNeedsPhoneOrAddress, Remediation: choice}
		}

		msg := LocalizeError(apiErr)
		r.logger.Warn().Err(apiErr).Msg("checkout rejected")
		r.notifier.Error(msg)
		return CheckoutResult{Outcome: CheckoutRejected, Message: msg}
	}

	r.logger.Info().Int64("order_id", order.ID).Str("order_number", order.Number).Msg("order placed")
	r.notifier.Info(msgOrderPlaced)
	r.items = nil
	r.cartID = 0

	return CheckoutResult{Outcome: CheckoutPlaced, Order: order, Message: msgOrderPlaced}
}

// checkGates evaluates the ordered precondition chain. Exactly the first
// failing gate's message is returned.
func (r *Reconciler) checkGates() (string, bool) {
	if len(r.items) == 0 {
		return msgCartEmpty, false
	}
	if r.cartID == 0 {
		return msgCartMissing, false
	}
	if r.delivery.BranchID == 0 {
		return msgSelectBranch, false
	}
	if r.delivery.Mode == model.ModeDelivery {
		if len(r.locations) == 0 {
			return msgAddAddress, false
		}
		if r.delivery.LocationID == 0 {
			return msgSelectAddress, false
		}
		if r.delivery.AreaFeeID == 0 {
			return msgSelectArea, false
		}
	}
	return "", true
}

func (r *Reconciler) findItem(itemID int64) int {
	for i := range r.items {
		if r.items[i].ID == itemID {
			return i
		}
	}
	return -1
}
