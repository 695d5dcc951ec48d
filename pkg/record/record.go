// Package record turns positioned OCR fragments from a household-registration
// scan into a structured personal record.
//
// The package contains no OCR and no I/O. It works purely on geometry: each
// recognized fragment carries a four-corner bounding quadrilateral, its text
// and a confidence score, and the value for a label is whatever sits on the
// same visual line to the right of it.
//
// Key Types:
//
// - Fragment: One recognized text region (quad, text, confidence)
// - Result: All fragments recognized on one image, in no meaningful order
// - Tag: A known label such as 姓名 that is searched for verbatim
// - FieldValue: The text found for a tag plus its confidence (-1 when absent)
// - Record: The five extracted fields of one person
//
// Main Functions:
//
// - AxisMode.Normalize: Reduces a quad to one comparable reference point
// - Validate: Checks that a result contains every required tag
// - Associator.Single / Associator.Multiline: Locate the value for one tag
// - Assembler.Assemble: Produces a complete record, or an empty one
package record

// Point is a pixel coordinate.
type Point struct {
	X float64
	Y float64
}

// EmptyPoint marks a reference point that was never computed.
var EmptyPoint = Point{X: -1, Y: -1}

// Empty reports whether p is the EmptyPoint sentinel.
func (p Point) Empty() bool {
	return p.X == -1 && p.Y == -1
}

// Quad holds the four corners of a detected text region in the engine's
// winding order. It is not guaranteed to be axis aligned.
type Quad [4]Point

// QuadFromBox builds a quad from an axis-aligned box using the
// top-left, top-right, bottom-right, bottom-left winding order.
func QuadFromBox(x1, y1, x2, y2 float64) Quad {
	return Quad{
		{X: x1, Y: y1},
		{X: x2, Y: y1},
		{X: x2, Y: y2},
		{X: x1, Y: y2},
	}
}

// Fragment is a single recognized text region.
type Fragment struct {
	Quad       Quad
	Text       string
	Confidence float64 // 0-1
}

// Result is the OCR output of one image.
type Result []Fragment

// FieldValue is the value located for one tag.
// A Confidence of -1 means the value was not found.
type FieldValue struct {
	Text       string
	Confidence float64
}

// NotFound is the FieldValue returned when a tag or its value is missing.
var NotFound = FieldValue{Text: "", Confidence: -1}

// Found reports whether v holds a located value.
func (v FieldValue) Found() bool {
	return v.Confidence != -1
}

// Record holds the personal data extracted from one image.
type Record struct {
	Name  string
	Sex   string
	ID    string
	Birth string
	Addr  string
}

// Empty reports whether no field of the record is populated.
// Failed extractions always produce an empty record.
func (r Record) Empty() bool {
	return r.Name == "" && r.Sex == "" && r.ID == "" && r.Birth == "" && r.Addr == ""
}

// Get returns the value stored for field f.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldSex:
		return r.Sex
	case FieldID:
		return r.ID
	case FieldBirth:
		return r.Birth
	case FieldAddr:
		return r.Addr
	}
	return ""
}

// Set stores value for field f.
func (r *Record) Set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldSex:
		r.Sex = value
	case FieldID:
		r.ID = value
	case FieldBirth:
		r.Birth = value
	case FieldAddr:
		r.Addr = value
	}
}
