package model

import "strings"

// Known validation error codes returned by the order endpoints.
const (
	ErrCodeMissingPhoneOrAddress = "MISSING_PHONE_OR_DEFAULT_ADDRESS"
	ErrCodeUserInactive          = "USER_INACTIVE"
	ErrCodeBranchClosed          = "BRANCH_CLOSED"
	ErrCodeBranchInactive        = "BRANCH_INACTIVE"
	ErrCodeBranchOutOfHours      = "BRANCH_OUT_OF_HOURS"
	ErrCodeDeliveryFeeInactive   = "DELIVERY_FEE_INACTIVE"
	ErrCodeDeliveryFeeNotFound   = "DELIVERY_FEE_NOT_FOUND"
	ErrCodeCartItemsUnavailable  = "CART_ITEMS_UNAVAILABLE"
)

// FieldError is one structured validation failure from the server.
type FieldError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// APIError is the server's validation error envelope. Transport failures and
// undecodable responses are plain errors, not APIErrors.
type APIError struct {
	StatusCode int          `json:"-"`
	Errors     []FieldError `json:"errors"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return "api error"
	}
	descs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		descs[i] = fe.Description
	}
	return strings.Join(descs, "; ")
}

// HasCode reports whether any entry carries the given code.
func (e *APIError) HasCode(code string) bool {
	for _, fe := range e.Errors {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// First returns the first entry, if any.
func (e *APIError) First() (FieldError, bool) {
	if len(e.Errors) == 0 {
		return FieldError{}, false
	}
	return e.Errors[0], true
}
