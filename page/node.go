package page

import (
	"strconv"
	"strings"

	"github.com/viant/sourcepick/dom"
)

type listener struct {
	id        int
	eventType string
	capture   bool
	fn        dom.Listener
}

// Node represents an element of an in-memory page
type Node struct {
	page      *Page
	tag       string
	attrs     []dom.Attribute
	style     map[string]string
	parent    *Node
	children  []*Node
	listeners []*listener
}

// TagName returns upper-cased tag name as browsers report it
func (n *Node) TagName() string {
	return strings.ToUpper(n.tag)
}

// Attribute returns attribute value and whether it is set
func (n *Node) Attribute(name string) (string, bool) {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	for _, attr := range n.attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Attributes returns a copy of element attributes
func (n *Node) Attributes() []dom.Attribute {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	result := make([]dom.Attribute, len(n.attrs))
	copy(result, n.attrs)
	return result
}

// Parent returns parent element or nil
func (n *Node) Parent() dom.Element {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Children returns child elements
func (n *Node) Children() []*Node {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	result := make([]*Node, len(n.children))
	copy(result, n.children)
	return result
}

// Bounds returns element box in viewport coordinates
func (n *Node) Bounds() dom.Rect {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	return n.bounds()
}

func (n *Node) bounds() dom.Rect {
	viewport := dom.Rect{Width: n.page.width, Height: n.page.height}
	if n.tag == "html" || n.tag == "body" {
		return viewport
	}
	if n.style["position"] == "fixed" && n.style["inset"] == "0" {
		return viewport
	}
	return dom.Rect{
		Left:   pixels(n.style["left"]),
		Top:    pixels(n.style["top"]),
		Width:  pixels(n.style["width"]),
		Height: pixels(n.style["height"]),
	}
}

// Style returns inline style property
func (n *Node) Style(property string) string {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	return n.style[property]
}

// SetStyle sets inline style property, an empty value removes it
func (n *Node) SetStyle(property, value string) {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	if value == "" {
		delete(n.style, property)
		return
	}
	n.style[property] = value
}

// On registers a capture-phase listener
func (n *Node) On(eventType string, fn dom.Listener) int {
	return n.AddEventListener(eventType, fn, true)
}

// AddEventListener registers a listener for capture or bubble phase
func (n *Node) AddEventListener(eventType string, fn dom.Listener, capture bool) int {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	n.page.sequence++
	n.listeners = append(n.listeners, &listener{id: n.page.sequence, eventType: eventType, capture: capture, fn: fn})
	return n.page.sequence
}

// Off removes a listener
func (n *Node) Off(id int) {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	for i, candidate := range n.listeners {
		if candidate.id == id {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns number of registered listeners
func (n *Node) ListenerCount() int {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	return len(n.listeners)
}

// Remove detaches node from its parent
func (n *Node) Remove() {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, candidate := range siblings {
		if candidate == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

func (n *Node) matching(eventType string, capture bool) []dom.Listener {
	n.page.mu.RLock()
	defer n.page.mu.RUnlock()
	var result []dom.Listener
	for _, candidate := range n.listeners {
		if candidate.eventType == eventType && candidate.capture == capture {
			result = append(result, candidate.fn)
		}
	}
	return result
}

func (n *Node) zIndex() int {
	value, err := strconv.Atoi(strings.TrimSpace(n.style["z-index"]))
	if err != nil {
		return 0
	}
	return value
}

// parseStyle parses inline declarations such as "left: 10px; top: 4px"
func parseStyle(text string) map[string]string {
	result := map[string]string{}
	for _, declaration := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(declaration, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		result[name] = strings.TrimSpace(value)
	}
	return result
}

func pixels(value string) float64 {
	value = strings.TrimSuffix(strings.TrimSpace(value), "px")
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}
