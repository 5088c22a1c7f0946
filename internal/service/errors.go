package service

import "errors"

// Sentinel errors returned by the business layer. Handlers map them to HTTP
// statuses with errors.Is: not-found sentinels become 404, the rest 400.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrStationNotFound  = errors.New("station not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrItemNotFound     = errors.New("order item not found")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrNoStations: order generation requires at least one active station.
	ErrNoStations = errors.New("location has no stations configured")
	// ErrInvalidTransition is wrapped with the offending from/to pair.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrOrderNotEditable: confirmed quantities only change on DRAFT orders.
	ErrOrderNotEditable = errors.New("order items can only be edited while the order is in DRAFT")
)

// NotFound reports whether err is one of the not-found sentinels.
func NotFound(err error) bool {
	for _, sentinel := range []error{
		ErrLocationNotFound, ErrStationNotFound, ErrProductNotFound,
		ErrOrderNotFound, ErrItemNotFound, ErrRecipeNotFound, ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
