package record

// EventKind identifies an advisory raised while assembling a record.
type EventKind string

const (
	EventLowConfidence EventKind = "low_confidence"
	EventTagNotFound   EventKind = "tag_not_found"
	EventValueNotFound EventKind = "value_not_found"
	EventInvalidLayout EventKind = "invalid_layout"
)

// Event is a side-channel notification. It is informational only and
// never changes the returned record.
type Event struct {
	Kind       EventKind
	Tag        Tag
	Field      Field
	Text       string
	Confidence float64
	Message    string
}

// Observer receives events from the Assembler.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Notify(Event) {}

// Events collects every event it receives. Useful in tests and for callers
// that want to inspect advisories after the fact.
type Events []Event

// Notify appends e.
func (es *Events) Notify(e Event) { *es = append(*es, e) }

// Kinds returns the kind of every collected event in order.
func (es Events) Kinds() []EventKind {
	kinds := make([]EventKind, 0, len(es))
	for _, e := range es {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
