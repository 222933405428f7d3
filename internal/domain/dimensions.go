package domain

import "fmt"

// Dimensions is an immutable width/height/depth triple. All components are
// strictly positive; use NewDimensions to construct one.
type Dimensions struct {
	width  float64
	height float64
	depth  float64
}

// NewDimensions validates and returns a Dimensions value.
// Returns a *ValidationError naming every non-positive component.
func NewDimensions(width, height, depth float64) (Dimensions, error) {
	fields := make(map[string]string)

	if width <= 0 {
		fields["width"] = fmt.Sprintf("must be positive, got %g", width)
	}
	if height <= 0 {
		fields["height"] = fmt.Sprintf("must be positive, got %g", height)
	}
	if depth <= 0 {
		fields["depth"] = fmt.Sprintf("must be positive, got %g", depth)
	}

	if len(fields) > 0 {
		return Dimensions{}, &ValidationError{Fields: fields}
	}
	return Dimensions{width: width, height: height, depth: depth}, nil
}

// MustDimensions is like NewDimensions but panics on invalid input.
// Intended for constants and tests.
func MustDimensions(width, height, depth float64) Dimensions {
	d, err := NewDimensions(width, height, depth)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Dimensions) Width() float64  { return d.width }
func (d Dimensions) Height() float64 { return d.height }
func (d Dimensions) Depth() float64  { return d.depth }

// Volume returns width × height × depth.
func (d Dimensions) Volume() float64 {
	return d.width * d.height * d.depth
}

// IsZero reports whether d is the zero value, i.e. was never constructed.
func (d Dimensions) IsZero() bool {
	return d == Dimensions{}
}

// String implements fmt.Stringer.
func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%gx%g", d.width, d.height, d.depth)
}
