package model

// MenuItem is the authoritative catalogue record, re-fetched whenever a cart
// line is opened for editing so the add-on selection is rebuilt against the
// current option catalogue.
type MenuItem struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Price        float64       `json:"price"`
	Available    bool          `json:"available"`
	Offer        *ItemOffer    `json:"offer,omitempty"`
	OptionGroups []OptionGroup `json:"optionGroups,omitempty"`
}

// OptionGroup groups add-on options. A Required group must have at least one
// selection before a cart line referencing the item can be saved.
type OptionGroup struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	MultiSelect bool         `json:"multiSelect"`
	Required    bool         `json:"required"`
	Options     []MenuOption `json:"options,omitempty"`
}

// MenuOption is a selectable add-on within a group.
type MenuOption struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// FindOption looks an option id up across all groups of the item.
func (m *MenuItem) FindOption(optionID int64) (MenuOption, *OptionGroup, bool) {
	for i := range m.OptionGroups {
		group := &m.OptionGroups[i]
		for _, opt := range group.Options {
			if opt.ID == optionID {
				return opt, group, true
			}
		}
	}
	return MenuOption{}, nil, false
}
