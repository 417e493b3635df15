package api

import (
	"encoding/json"
	"fmt"
	"time"

	"mataam/internal/model"
)

// The server has historically exposed the same values under several field
// names, and the order feed pushes the same records with capitalized keys.
// The raw types below absorb both: alias fields cover the renames, and Go's
// case-insensitive JSON field matching covers the capitalization. Nothing
// outside this file deals with either.

type rawOffer struct {
	ID         int64     `json:"id"`
	MenuItemID int64     `json:"menuItemId"`
	Kind       string    `json:"kind"`
	Type       string    `json:"discountType"`
	Amount     *float64  `json:"amount"`
	Value      *float64  `json:"discountValue"`
	Enabled    *bool     `json:"enabled"`
	IsEnabled  *bool     `json:"isEnabled"`
	StartAt    time.Time `json:"startAt"`
	StartDate  time.Time `json:"startDate"`
	EndAt      time.Time `json:"endAt"`
	EndDate    time.Time `json:"endDate"`
	BranchIDs  []int64   `json:"branchIds"`
}

type rawMenuOption struct {
	ID          int64    `json:"id"`
	GroupID     int64    `json:"groupId"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	OptionPrice *float64 `json:"optionPrice"`
	Extra       *float64 `json:"extraPrice"`
}

type rawOptionGroup struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	MultiSelect *bool           `json:"multiSelect"`
	IsMultiple  *bool           `json:"isMultiple"`
	Required    *bool           `json:"required"`
	IsRequired  *bool           `json:"isRequired"`
	Options     []rawMenuOption `json:"options"`
}

type rawMenuItem struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	BasePrice     *float64         `json:"basePrice"`
	Price         *float64         `json:"price"`
	ItemPrice     *float64         `json:"itemPrice"`
	UnitPrice     *float64         `json:"unitPrice"`
	MenuItemPrice *float64         `json:"menuItemPrice"`
	Available     *bool            `json:"available"`
	IsAvailable   *bool            `json:"isAvailable"`
	Offer         *rawOffer        `json:"offer"`
	ItemOffer     *rawOffer        `json:"itemOffer"`
	OptionGroups  []rawOptionGroup `json:"optionGroups"`
}

type rawCartItem struct {
	ID              int64           `json:"id"`
	CartID          int64           `json:"cartId"`
	Quantity        int             `json:"quantity"`
	Note            string          `json:"note"`
	MenuItem        rawMenuItem     `json:"menuItem"`
	MenuItemOptions []rawMenuOption `json:"menuItemOptions"`
}

type rawDeliveryFee struct {
	ID       int64    `json:"id"`
	BranchID int64    `json:"branchId"`
	Area     string   `json:"area"`
	AreaName string   `json:"areaName"`
	Kind     string   `json:"kind"`
	Type     string   `json:"feeType"`
	Price    *float64 `json:"price"`
	Fee      *float64 `json:"fee"`
	Cost     *float64 `json:"cost"`
	Active   *bool    `json:"active"`
	IsActive *bool    `json:"isActive"`
	Pickup   *bool    `json:"isPickup"`
}

type rawSelectedOption struct {
	ID       int64    `json:"id"`
	OptionID int64    `json:"optionId"`
	GroupID  int64    `json:"groupId"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Snapshot *float64 `json:"snapshotPrice"`
}

type rawOrderLine struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	ItemName      string              `json:"itemName"`
	BasePrice     *float64            `json:"basePrice"`
	Price         *float64            `json:"price"`
	ItemPrice     *float64            `json:"itemPrice"`
	UnitPrice     *float64            `json:"unitPrice"`
	SnapshotPrice *float64            `json:"snapshotPrice"`
	Discount      *float64            `json:"discount"`
	ItemDiscount  *float64            `json:"itemDiscount"`
	Quantity      int                 `json:"quantity"`
	Options       []rawSelectedOption `json:"options"`
	OrderOptions  []rawSelectedOption `json:"orderItemOptions"`
}

type rawOrderUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type rawOrderBranch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawOrder struct {
	ID          int64           `json:"id"`
	Number      string          `json:"number"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	OrderStatus string          `json:"orderStatus"`
	User        *rawOrderUser   `json:"user"`
	UserID      int64           `json:"userId"`
	UserName    string          `json:"userName"`
	Branch      *rawOrderBranch `json:"branch"`
	BranchID    int64           `json:"branchId"`
	BranchName  string          `json:"branchName"`
	DeliveryFee *rawDeliveryFee `json:"deliveryFee"`
	LocationID  int64           `json:"locationId"`
	Notes       string          `json:"notes"`
	Items       []rawOrderLine  `json:"items"`
	OrderItems  []rawOrderLine  `json:"orderItems"`

	TotalWithoutFee *float64 `json:"totalWithoutFee"`
	SubTotal        *float64 `json:"subTotal"`
	TotalDiscount   *float64 `json:"totalDiscount"`
	DiscountTotal   *float64 `json:"discountTotal"`
	DeliveryCost    *float64 `json:"deliveryCost"`
	TotalWithFee    *float64 `json:"totalWithFee"`
	Total           *float64 `json:"total"`

	CreatedAt time.Time `json:"createdAt"`
	OrderDate time.Time `json:"orderDate"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// firstFloat returns the first present alias, or 0.
func firstFloat(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

// firstBool returns the first present alias, or the fallback.
func firstBool(fallback bool, candidates ...*bool) bool {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return fallback
}

func firstString(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func firstTime(candidates ...time.Time) time.Time {
	for _, c := range candidates {
		if !c.IsZero() {
			return c
		}
	}
	return time.Time{}
}

func (c *Client) normalizeOffer(raw *rawOffer) *model.ItemOffer {
	if raw == nil {
		return nil
	}

	kind := model.DiscountKind(firstString(raw.Kind, raw.Type))
	if kind != model.DiscountPercentage && kind != model.DiscountFixed {
		kind = model.DiscountFixed
	}

	return &model.ItemOffer{
		ID:         raw.ID,
		MenuItemID: raw.MenuItemID,
		Kind:       kind,
		Amount:     firstFloat(raw.Amount, raw.Value),
		Enabled:    firstBool(false, raw.Enabled, raw.IsEnabled),
		StartAt:    c.clock.FromServer(firstTime(raw.StartAt, raw.StartDate)),
		EndAt:      c.clock.FromServer(firstTime(raw.EndAt, raw.EndDate)),
		BranchIDs:  raw.BranchIDs,
	}
}

func normalizeMenuOption(raw rawMenuOption) model.MenuOption {
	return model.MenuOption{
		ID:    raw.ID,
		Name:  firstString(raw.Name, raw.Title),
		Price: firstFloat(raw.Price, raw.OptionPrice, raw.Extra),
	}
}

func (c *Client) normalizeMenuItem(raw rawMenuItem) model.MenuItem {
	groups := make([]model.OptionGroup, 0, len(raw.OptionGroups))
	for _, g := range raw.OptionGroups {
		options := make([]model.MenuOption, 0, len(g.Options))
		for _, o := range g.Options {
			options = append(options, normalizeMenuOption(o))
		}
		groups = append(groups, model.OptionGroup{
			ID:          g.ID,
			Title:       firstString(g.Title, g.Name),
			MultiSelect: firstBool(false, g.MultiSelect, g.IsMultiple),
			Required:    firstBool(false, g.Required, g.IsRequired),
			Options:     options,
		})
	}

	return model.MenuItem{
		ID:           raw.ID,
		Name:         raw.Name,
		Price:        firstFloat(raw.BasePrice, raw.Price, raw.ItemPrice, raw.UnitPrice, raw.MenuItemPrice),
		Available:    firstBool(true, raw.Available, raw.IsAvailable),
		Offer:        c.normalizeOffer(coalesceOffer(raw.Offer, raw.ItemOffer)),
		OptionGroups: groups,
	}
}

func coalesceOffer(offers ...*rawOffer) *rawOffer {
	for _, o := range offers {
		if o != nil {
			return o
		}
	}
	return nil
}

func (c *Client) normalizeCartItem(raw rawCartItem) model.CartItem {
	options := make([]model.SelectedOption, 0, len(raw.MenuItemOptions))
	for _, o := range raw.MenuItemOptions {
		options = append(options, model.SelectedOption{
			ID:      o.ID,
			GroupID: o.GroupID,
			Name:    firstString(o.Name, o.Title),
			Price:   firstFloat(o.Price, o.OptionPrice, o.Extra),
		})
	}

	menuItem := c.normalizeMenuItem(raw.MenuItem)

	return model.CartItem{
		ID:         raw.ID,
		CartID:     raw.CartID,
		MenuItemID: menuItem.ID,
		Name:       menuItem.Name,
		BasePrice:  menuItem.Price,
		Offer:      menuItem.Offer,
		Quantity:   raw.Quantity,
		Options:    options,
		Note:       raw.Note,
	}
}

func normalizeFeeKind(raw *rawDeliveryFee) model.FeeKind {
	if raw.Pickup != nil && *raw.Pickup {
		return model.FeePickup
	}
	switch firstString(raw.Kind, raw.Type) {
	case string(model.FeePickup), "Pickup":
		return model.FeePickup
	default:
		return model.FeeArea
	}
}

func normalizeDeliveryFee(raw *rawDeliveryFee) *model.DeliveryFee {
	if raw == nil {
		return nil
	}
	return &model.DeliveryFee{
		ID:       raw.ID,
		BranchID: raw.BranchID,
		Area:     firstString(raw.Area, raw.AreaName),
		Kind:     normalizeFeeKind(raw),
		Price:    firstFloat(raw.Price, raw.Fee, raw.Cost),
		Active:   firstBool(true, raw.Active, raw.IsActive),
	}
}

func normalizeOrderLine(raw rawOrderLine) model.OrderLine {
	rawOptions := raw.Options
	if len(rawOptions) == 0 {
		rawOptions = raw.OrderOptions
	}

	options := make([]model.SelectedOption, 0, len(rawOptions))
	for _, o := range rawOptions {
		id := o.ID
		if o.OptionID != 0 {
			id = o.OptionID
		}
		options = append(options, model.SelectedOption{
			ID:      id,
			GroupID: o.GroupID,
			Name:    o.Name,
			Price:   firstFloat(o.Price, o.Snapshot),
		})
	}

	return model.OrderLine{
		ID:        raw.ID,
		Name:      firstString(raw.Name, raw.ItemName),
		BasePrice: firstFloat(raw.BasePrice, raw.Price, raw.ItemPrice, raw.UnitPrice, raw.SnapshotPrice),
		Discount:  firstFloat(raw.Discount, raw.ItemDiscount),
		Quantity:  raw.Quantity,
		Options:   options,
	}
}

func (c *Client) normalizeOrder(raw rawOrder) model.Order {
	rawLines := raw.Items
	if len(rawLines) == 0 {
		rawLines = raw.OrderItems
	}

	lines := make([]model.OrderLine, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, normalizeOrderLine(l))
	}

	order := model.Order{
		ID:          raw.ID,
		Number:      firstString(raw.Number, raw.OrderNumber),
		Status:      model.OrderStatus(firstString(raw.Status, raw.OrderStatus)),
		UserID:      raw.UserID,
		UserName:    raw.UserName,
		BranchID:    raw.BranchID,
		BranchName:  raw.BranchName,
		DeliveryFee: normalizeDeliveryFee(raw.DeliveryFee),
		LocationID:  raw.LocationID,
		Notes:       raw.Notes,
		Items:       lines,

		TotalWithoutFee: firstFloat(raw.TotalWithoutFee, raw.SubTotal),
		TotalDiscount:   firstFloat(raw.TotalDiscount, raw.DiscountTotal),
		DeliveryCost:    firstFloat(raw.DeliveryCost),
		TotalWithFee:    firstFloat(raw.TotalWithFee, raw.Total),

		CreatedAt: c.clock.FromServer(firstTime(raw.CreatedAt, raw.OrderDate)),
		UpdatedAt: c.clock.FromServer(raw.UpdatedAt),
	}

	if raw.User != nil {
		order.UserID = raw.User.ID
		order.UserName = firstString(raw.User.Name, order.UserName)
		order.UserPhone = raw.User.Phone
	}
	if raw.Branch != nil {
		order.BranchID = raw.Branch.ID
		order.BranchName = firstString(raw.Branch.Name, order.BranchName)
	}
	if order.DeliveryFee != nil && order.DeliveryCost == 0 {
		order.DeliveryCost = order.DeliveryFee.Price
	}

	return order
}

// DecodeOrderPayload normalizes one pushed order message from the feed
// socket. The payload uses capitalized keys but is otherwise the same record
// the REST endpoints return.
func (c *Client) DecodeOrderPayload(data []byte) (*model.Order, error) {
	var raw rawOrder
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode order payload: %w", err)
	}
	order := c.normalizeOrder(raw)
	return &order, nil
}
