package cart

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"mataam/internal/model"
	"mataam/internal/pricing"
)

// EditSession is the product modal's working state for one cart line. The
// selection is rebuilt against a fresh catalogue fetch, so options that no
// longer exist are silently dropped.
type EditSession struct {
	ItemID   int64
	Menu     *model.MenuItem
	Note     string
	selected map[int64]bool
}

// BeginEdit re-fetches the authoritative menu item and reconstructs the
// add-on selection from the cart line's currently chosen options.
func (r *Reconciler) BeginEdit(ctx context.Context, itemID int64) (*EditSession, error) {
	idx := r.findItem(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("cart item %d not found", itemID)
	}
	item := r.items[idx]

	menu, err := r.api.GetMenuItem(ctx, item.MenuItemID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("menu_item_id", item.MenuItemID).Msg("menu item fetch failed")
		r.notifier.Error(msgGenericError)
		return nil, err
	}

	selected := make(map[int64]bool)
	dropped := 0
	for _, opt := range item.Options {
		if _, _, ok := menu.FindOption(opt.ID); ok {
			selected[opt.ID] = true
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		r.logger.Debug().Int("dropped", dropped).Int64("item_id", itemID).Msg("stale options dropped from selection")
	}

	return &EditSession{
		ItemID:   itemID,
		Menu:     menu,
		Note:     item.Note,
		selected: selected,
	}, nil
}

// Selected reports whether an option is currently chosen.
func (e *EditSession) Selected(optionID int64) bool {
	return e.selected[optionID]
}

// Toggle flips an option. Choosing an option in a single-select group
// replaces that group's previous choice.
func (e *EditSession) Toggle(optionID int64) {
	_, group, ok := e.Menu.FindOption(optionID)
	if !ok {
		return
	}

	if e.selected[optionID] {
		delete(e.selected, optionID)
		return
	}

	if !group.MultiSelect {
		for _, opt := range group.Options {
			delete(e.selected, opt.ID)
		}
	}
	e.selected[optionID] = true
}

// MissingRequiredGroups returns the titles of required groups with no
// selection, in catalogue order.
func (e *EditSession) MissingRequiredGroups() []string {
	var missing []string
	for _, group := range e.Menu.OptionGroups {
		if !group.Required {
			continue
		}
		any := false
		for _, opt := range group.Options {
			if e.selected[opt.ID] {
				any = true
				break
			}
		}
		if !any {
			missing = append(missing, group.Title)
		}
	}
	return missing
}

// SelectedIDs returns the chosen option ids in stable order.
func (e *EditSession) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SaveEdit validates the selection, persists it, and mirrors the confirmed
// state into the local line. Required groups block the save with a named
// list of the missing group titles.
func (r *Reconciler) SaveEdit(ctx context.Context, e *EditSession) error {
	if missing := e.MissingRequiredGroups(); len(missing) > 0 {
		msg := missingOptionsMessage(missing)
		r.notifier.Warn(msg)
		return fmt.Errorf("required option groups unselected: %v", missing)
	}

	if utf8.RuneCountInString(e.Note) > model.MaxNoteLength {
		r.notifier.Warn(msgNoteTooLong)
		return fmt.Errorf("note exceeds %d characters", model.MaxNoteLength)
	}

	ids := e.SelectedIDs()
	if err := r.api.UpdateCartItem(ctx, e.ItemID, e.Note, ids); err != nil {
		r.logger.Warn().Err(err).Int64("item_id", e.ItemID).Msg("cart item update failed")
		r.notifier.Error(msgGenericError)
		return err
	}

	idx := r.findItem(e.ItemID)
	if idx < 0 {
		return nil
	}

	item := &r.items[idx]
	item.Note = e.Note
	item.Options = item.Options[:0]
	for _, id := range ids {
		opt, group, ok := e.Menu.FindOption(id)
		if !ok {
			continue
		}
		item.Options = append(item.Options, model.SelectedOption{
			ID:      opt.ID,
			GroupID: group.ID,
			Name:    opt.Name,
			Price:   opt.Price,
		})
	}

	// Catalogue fetch is authoritative for the price inputs too.
	item.BasePrice = e.Menu.Price
	item.Offer = e.Menu.Offer
	pricing.Recalculate(item, r.now())

	return nil
}
