package record

import (
	"errors"
	"fmt"
)

// DefaultLowConfidence is the confidence below which a located value raises
// an advisory.
const DefaultLowConfidence = 0.95

// Assembler drives the Associator once per tag and builds a Record.
type Assembler struct {
	Associator    *Associator
	LowConfidence float64
	Observer      Observer
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithObserver routes advisories to o.
func WithObserver(o Observer) Option {
	return func(a *Assembler) {
		if o != nil {
			a.Observer = o
		}
	}
}

// WithLowConfidence overrides the advisory threshold.
func WithLowConfidence(threshold float64) Option {
	return func(a *Assembler) { a.LowConfidence = threshold }
}

// WithAssociator replaces the default Associator.
func WithAssociator(assoc *Associator) Option {
	return func(a *Assembler) {
		if assoc != nil {
			a.Associator = assoc
		}
	}
}

// NewAssembler returns an Assembler using extent-based axis detection and the
// default thresholds unless overridden by opts.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		Associator:    NewAssociator(AxisByExtent),
		LowConfidence: DefaultLowConfidence,
		Observer:      nopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble extracts a Record from r. Any failure yields an empty Record;
// partial records are never returned.
func (a *Assembler) Assemble(r Result) Record {
	rec, _ := a.AssembleErr(r)
	return rec
}

// AssembleErr is Assemble that also reports why the record is empty.
// The returned error is always a *Error.
func (a *Assembler) AssembleErr(r Result) (Record, error) {
	if err := ValidateErr(r); err != nil {
		e := Event{Kind: EventInvalidLayout, Message: err.Error()}
		var rerr *Error
		if errors.As(err, &rerr) {
			e.Message = rerr.Message
		}
		a.notify(e)
		return Record{}, err
	}

	var rec Record
	for _, spec := range Tags {
		value, err := a.Associator.Associate(r, spec.Tag, spec.Multiline)
		if err == nil && !value.Found() {
			err = NewValueNotFoundError(spec.Tag)
		}
		if err != nil {
			a.notify(failureEvent(spec, err))
			return Record{}, err
		}
		if value.Confidence >= 0 && value.Confidence < a.LowConfidence {
			a.notify(Event{
				Kind:       EventLowConfidence,
				Tag:        spec.Tag,
				Field:      spec.Field,
				Text:       value.Text,
				Confidence: value.Confidence,
				Message:    fmt.Sprintf("low accuracy expected on `%s`", spec.Field),
			})
		}
		rec.Set(spec.Field, value.Text)
	}
	return rec, nil
}

func (a *Assembler) notify(e Event) {
	if a.Observer != nil {
		a.Observer.Notify(e)
	}
}

func failureEvent(spec TagSpec, err error) Event {
	e := Event{Kind: EventValueNotFound, Tag: spec.Tag, Field: spec.Field, Confidence: -1, Message: err.Error()}
	if errors.Is(err, ErrTagNotFound) {
		e.Kind = EventTagNotFound
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		e.Message = rerr.Message
	}
	return e
}
