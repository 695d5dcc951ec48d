package record

import (
	"fmt"
	"math"
	"strings"
)

// AxisMode selects how a quad is reduced to its reference point.
//
// OCR engines disagree on whether a corner is reported as (col, row) or
// (row, col). AxisByExtent resolves this per quad by assuming label cells are
// wider than they are tall. AxisFixed trusts the engine and uses the first
// corner as reported.
type AxisMode string

const (
	AxisByExtent AxisMode = "extent"
	AxisFixed    AxisMode = "fixed"
)

// ParseAxisMode converts a configuration string into an AxisMode.
// The empty string selects AxisByExtent.
func ParseAxisMode(s string) (AxisMode, error) {
	switch AxisMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AxisByExtent:
		return AxisByExtent, nil
	case AxisFixed:
		return AxisFixed, nil
	}
	return "", fmt.Errorf("unknown axis mode %q (want %q or %q)", s, AxisByExtent, AxisFixed)
}

// Normalize returns the reference point of q: its first corner expressed in
// (x, y) where x is the axis with the larger extent across the quad.
//
// When both extents are equal (including four identical points) the first
// raw axis is taken as x.
func (m AxisMode) Normalize(q Quad) Point {
	if m == AxisFixed {
		return q[0]
	}

	min0, max0 := math.Inf(1), math.Inf(-1)
	min1, max1 := math.Inf(1), math.Inf(-1)
	for _, p := range q {
		min0 = math.Min(min0, p.X)
		max0 = math.Max(max0, p.X)
		min1 = math.Min(min1, p.Y)
		max1 = math.Max(max1, p.Y)
	}

	if max0-min0 >= max1-min1 {
		return q[0]
	}
	return Point{X: q[0].Y, Y: q[0].X}
}
