package record

import (
	"math"
	"sort"
)

// Default association thresholds, in pixels.
const (
	DefaultSameLineY  = 50
	DefaultMultilineX = 20
)

// Associator locates the value fragment(s) belonging to a tag.
// The zero value is not usable; use NewAssociator.
type Associator struct {
	// Axis reduces every quad to its reference point.
	Axis AxisMode
	// SameLineY is the exclusive vertical tolerance for a candidate to sit on
	// the same line as the anchor.
	SameLineY float64
	// MultilineX is the largest horizontal offset at which two stacked
	// candidates are still read as one wrapped value.
	MultilineX float64
}

// NewAssociator returns an Associator with the default thresholds.
func NewAssociator(axis AxisMode) *Associator {
	return &Associator{
		Axis:       axis,
		SameLineY:  DefaultSameLineY,
		MultilineX: DefaultMultilineX,
	}
}

type candidate struct {
	frag *Fragment
	ref  Point
}

// Single returns the nearest fragment to the right of tag on its line.
func (a *Associator) Single(r Result, tag Tag) FieldValue {
	v, _ := a.single(r, tag)
	return v
}

// Multiline returns the value for tag allowing it to wrap onto a second
// stacked line, as long addresses do.
func (a *Associator) Multiline(r Result, tag Tag) FieldValue {
	v, _ := a.multiline(r, tag)
	return v
}

// Associate dispatches to Single or Multiline and reports a *Error of
// KindAssociation when nothing was found.
func (a *Associator) Associate(r Result, tag Tag, multiline bool) (FieldValue, error) {
	if multiline {
		return a.multiline(r, tag)
	}
	return a.single(r, tag)
}

func (a *Associator) single(r Result, tag Tag) (FieldValue, error) {
	anchor, ok := a.anchor(r, tag)
	if !ok {
		return NotFound, NewTagNotFoundError(tag)
	}

	var closest *candidate
	for _, c := range a.candidates(r, tag, anchor) {
		c := c // per-iteration copy; go.mod targets go 1.21 loop semantics
		if closest != nil {
			// The current closest wins when it is not further right, or when
			// it sits better on the anchor's line.
			if closest.ref.X <= c.ref.X ||
				math.Abs(closest.ref.Y-anchor.Y) < math.Abs(c.ref.Y-anchor.Y) {
				continue
			}
		}
		closest = &c
	}

	if closest == nil {
		return NotFound, NewValueNotFoundError(tag)
	}
	return FieldValue{Text: closest.frag.Text, Confidence: closest.frag.Confidence}, nil
}

func (a *Associator) multiline(r Result, tag Tag) (FieldValue, error) {
	anchor, ok := a.anchor(r, tag)
	if !ok {
		return NotFound, NewTagNotFoundError(tag)
	}

	lines := a.candidates(r, tag, anchor)
	if len(lines) == 0 {
		return NotFound, NewValueNotFoundError(tag)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].ref.Y < lines[j].ref.Y
	})

	switch n := len(lines); {
	case n == 1:
		return FieldValue{Text: lines[0].frag.Text, Confidence: lines[0].frag.Confidence}, nil
	case n == 2 && math.Abs(lines[0].ref.X-lines[1].ref.X) > a.MultilineX:
		// Not left aligned, so only one of them belongs to the tag.
		last := lines[1]
		return FieldValue{Text: last.frag.Text, Confidence: last.frag.Confidence}, nil
	default:
		return join(lines[n-2], lines[n-1]), nil
	}
}

// anchor returns the reference point of the first fragment whose text is
// exactly tag.
func (a *Associator) anchor(r Result, tag Tag) (Point, bool) {
	for i := range r {
		if r[i].Text == string(tag) {
			return a.Axis.Normalize(r[i].Quad), true
		}
	}
	return EmptyPoint, false
}

// candidates returns, in result order, every fragment that lies on the
// anchor's line strictly to its right. Fragments reading exactly tag are
// skipped.
func (a *Associator) candidates(r Result, tag Tag, anchor Point) []candidate {
	var out []candidate
	for i := range r {
		if r[i].Text == string(tag) {
			continue
		}
		ref := a.Axis.Normalize(r[i].Quad)
		if math.Abs(ref.Y-anchor.Y) < a.SameLineY && ref.X > anchor.X {
			out = append(out, candidate{frag: &r[i], ref: ref})
		}
	}
	return out
}

func join(upper, lower candidate) FieldValue {
	return FieldValue{
		Text:       upper.frag.Text + lower.frag.Text,
		Confidence: (upper.frag.Confidence + lower.frag.Confidence) / 2,
	}
}
