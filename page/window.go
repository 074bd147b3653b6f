package page

import (
	"github.com/viant/sourcepick/dom"
)

// Document returns the page document
func (p *Page) Document() dom.Document {
	return p
}

// Parent returns embedding frame or nil for a top-level page
func (p *Page) Parent() dom.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.parent
}

// SetParent embeds page in a frame
func (p *Page) SetParent(parent dom.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parent = parent
}

// Flag returns window global flag
func (p *Page) Flag(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flags[name]
}

// SetFlag sets window global flag
func (p *Page) SetFlag(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flags[name] = true
}

// OnMessage registers inbound message listener
func (p *Page) OnMessage(listener func(data []byte)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, listener)
}

// PostMessage delivers a message to this window's listeners
func (p *Page) PostMessage(data []byte, _ string) error {
	p.Deliver(data)
	return nil
}

// Deliver runs message listeners on the event loop
func (p *Page) Deliver(data []byte) {
	p.loop.Lock()
	defer p.loop.Unlock()
	p.mu.RLock()
	listeners := make([]func(data []byte), len(p.messages))
	copy(listeners, p.messages)
	p.mu.RUnlock()
	for _, listener := range listeners {
		listener(data)
	}
}

// WhenReady runs fn once the document is loaded
func (p *Page) WhenReady(fn func()) {
	p.mu.Lock()
	if p.loading {
		p.onReady = append(p.onReady, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn()
}

// Ready finishes loading, running deferred callbacks
func (p *Page) Ready() {
	p.loop.Lock()
	defer p.loop.Unlock()
	p.mu.Lock()
	callbacks := p.onReady
	p.onReady = nil
	p.loading = false
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// Run executes fn on the event loop
func (p *Page) Run(fn func()) {
	p.loop.Lock()
	defer p.loop.Unlock()
	fn()
}

// Move dispatches a pointer-move event at the point
func (p *Page) Move(x, y float64) *dom.Event {
	return p.Dispatch(dom.EventPointerMove, x, y)
}

// Click dispatches a click event at the point
func (p *Page) Click(x, y float64) *dom.Event {
	return p.Dispatch(dom.EventClick, x, y)
}

// Dispatch delivers an event to the hit-tested target: capture phase from the root, then bubbling back
func (p *Page) Dispatch(eventType string, x, y float64) *dom.Event {
	p.loop.Lock()
	defer p.loop.Unlock()
	event := dom.NewEvent(eventType, x, y)
	target := p.hitTest(x, y)
	if target == nil {
		return event
	}
	event.Target = target
	path := p.path(target)
	for _, node := range path {
		if p.invoke(node, event, true) {
			return event
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		if p.invoke(path[i], event, false) {
			return event
		}
	}
	return event
}

// path returns ancestors of target from the root, target included
func (p *Page) path(target *Node) []*Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var result []*Node
	for node := target; node != nil; node = node.parent {
		result = append([]*Node{node}, result...)
	}
	return result
}

// invoke runs node listeners for the phase, returning true when propagation stopped
func (p *Page) invoke(node *Node, event *dom.Event, capture bool) bool {
	for _, fn := range node.matching(event.Type, capture) {
		fn(event)
		if event.ImmediatelyStopped() {
			return true
		}
	}
	return event.PropagationStopped()
}
