package rpn

// EventType identifies a stack operation reported to a Tracer.
type EventType int

const (
	EventPush EventType = iota + 1
	EventPop
	EventResult
)

func (t EventType) String() string {
	switch t {
	case EventPush:
		return "push"
	case EventPop:
		return "pop"
	case EventResult:
		return "result"
	}
	return "unknown"
}

// Event describes one stack operation.
//
// For EventPop, Left and Right hold the popped operands and Token the operator.
// For EventPush and EventResult, Value holds the value involved.
// Depth is the stack size after the operation.
type Event struct {
	Type     EventType
	Position int
	Token    string
	Value    float64
	Left     float64
	Right    float64
	Depth    int
}

// Tracer observes evaluation. Implementations must not assume they are called
// at all: a nil Tracer disables tracing.
type Tracer interface {
	Trace(Event)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(Event)

func (f TracerFunc) Trace(e Event) { f(e) }
