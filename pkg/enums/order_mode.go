package enums

import "fmt"

// OrderMode distinguishes how the buyer receives an order.
type OrderMode string

const (
	OrderModePickup   OrderMode = "pickup"
	OrderModeDelivery OrderMode = "delivery"
)

var validOrderModes = []OrderMode{
	OrderModePickup,
	OrderModeDelivery,
}

// String implements fmt.Stringer.
func (m OrderMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known OrderMode.
func (m OrderMode) IsValid() bool {
	for _, candidate := range validOrderModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseOrderMode converts raw input into an OrderMode.
func ParseOrderMode(value string) (OrderMode, error) {
	for _, candidate := range validOrderModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order mode %q", value)
}
