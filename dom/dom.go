// Package dom defines the page surface the picker runs against.
// Implementations deliver events and messages on a single event loop, one at a time.
package dom

const (
	EventPointerMove = "mousemove"
	EventClick       = "click"
)

// Rect represents an element bounding box in viewport coordinates
type Rect struct {
	Left, Top, Width, Height float64
}

// Contains returns true if the point lies within the box
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Attribute represents an element attribute
type Attribute struct {
	Name  string
	Value string
}

// Element represents a rendered node
type Element interface {
	TagName() string
	// Attribute returns value and true when the attribute is set, including an empty value
	Attribute(name string) (string, bool)
	Attributes() []Attribute
	// Parent returns enclosing element or nil at the root
	Parent() Element
	Bounds() Rect
}

// Listener handles a dispatched event
type Listener func(event *Event)

// Overlay represents a node created and exclusively owned by the picker
type Overlay interface {
	Element
	Style(property string) string
	SetStyle(property, value string)
	// On registers a capture-phase listener, returning an id for Off
	On(eventType string, listener Listener) int
	Off(id int)
	// Remove detaches overlay from the document
	Remove()
}

// Document represents the rendered page
type Document interface {
	// ElementFromPoint returns the top-most hit-testable element or nil
	ElementFromPoint(x, y float64) Element
	// CreateOverlay creates a node with the supplied inline style appended to the body
	CreateOverlay(style map[string]string) Overlay
}

// Frame represents a message target such as a parent window
type Frame interface {
	PostMessage(data []byte, targetOrigin string) error
}

// Window represents the browsing context hosting a document
type Window interface {
	Frame
	Document() Document
	// Parent returns the embedding frame, nil or the window itself at the top level
	Parent() Frame
	Flag(name string) bool
	SetFlag(name string)
	// OnMessage registers a listener for inbound cross-window messages
	OnMessage(listener func(data []byte))
	// WhenReady runs fn once the document has loaded, immediately if it already has
	WhenReady(fn func())
}

// EventLoop is implemented by windows able to run work on their event loop.
// Run must not be called from code already running on the loop.
type EventLoop interface {
	Run(fn func())
}

// Event represents a dispatched pointer event
type Event struct {
	Type   string
	X, Y   float64
	Target Element

	defaultPrevented   bool
	propagationStopped bool
	immediatelyStopped bool
}

// NewEvent creates a pointer event
func NewEvent(eventType string, x, y float64) *Event {
	return &Event{Type: eventType, X: x, Y: y}
}

func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatelyStopped = true
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

func (e *Event) ImmediatelyStopped() bool {
	return e.immediatelyStopped
}
