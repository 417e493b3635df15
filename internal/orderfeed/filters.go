package orderfeed

import (
	"strconv"
	"time"

	"mataam/internal/model"
	"mataam/internal/session"
)

// Filter is the staff order list's filter model.
type Filter struct {
	Status   model.OrderStatus // empty means all statuses
	UserID   int64             // admin scope only
	BranchID int64
	From     time.Time
	To       time.Time
}

// Compile renders the filter into the generic property clauses the paginated
// search endpoint consumes. The user filter is admin-only and dropped for
// every other role.
func (f Filter) Compile(role session.Role) []model.PropertyFilter {
	var out []model.PropertyFilter

	if f.Status != "" {
		out = append(out, model.PropertyFilter{
			PropertyName:  "orderStatus",
			PropertyValue: string(f.Status),
		})
	}

	if f.UserID != 0 && role == session.RoleAdmin {
		out = append(out, model.PropertyFilter{
			PropertyName:  "userId",
			PropertyValue: strconv.FormatInt(f.UserID, 10),
		})
	}

	if f.BranchID != 0 {
		out = append(out, model.PropertyFilter{
			PropertyName:  "branchId",
			PropertyValue: strconv.FormatInt(f.BranchID, 10),
		})
	}

	if !f.From.IsZero() || !f.To.IsZero() {
		out = append(out, model.PropertyFilter{
			PropertyName: "createdAt",
			Range:        &model.DateRange{From: f.From, To: f.To},
		})
	}

	return out
}
