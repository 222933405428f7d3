package domain

import "fmt"

// Item is the capability shared by everything the warehouse stores: a
// positive identity, physical dimensions, an own weight and a volume.
// Identity is by ID alone; see SameItem.
type Item interface {
	ID() int64
	Dimensions() Dimensions
	Weight() float64
	Volume() float64
}

// SameItem reports whether a and b denote the same stored item.
func SameItem(a, b Item) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}

// ValidateItem checks the construction rules every Item shares.
// Returns a *ValidationError (wrapping ErrValidation) with per-field details,
// or nil if all rules pass.
func ValidateItem(id int64, dims Dimensions, weight float64) error {
	fields := make(map[string]string)

	if id <= 0 {
		fields["id"] = fmt.Sprintf("must be positive, got %d", id)
	}
	if dims.IsZero() {
		fields["dimensions"] = MsgRequired
	}
	if weight <= 0 {
		fields["weight"] = fmt.Sprintf("must be positive, got %g", weight)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
