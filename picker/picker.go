package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/sourcepick/dom"
	"github.com/viant/sourcepick/protocol"
)

const (
	// InitializedFlag guards against installing the picker twice in one window
	InitializedFlag = "__sourceSelectorInitialized"
	// ReadyFlag is set once message listener is installed
	ReadyFlag = "__sourceSelectorReady"
)

var blockerStyle = map[string]string{
	"position":       "fixed",
	"inset":          "0",
	"z-index":        "2147483646",
	"background":     "transparent",
	"cursor":         "crosshair",
	"user-select":    "none",
	"pointer-events": "auto",
}

var highlightStyle = map[string]string{
	"position":       "fixed",
	"border":         "2px solid #4d5fef",
	"box-sizing":     "border-box",
	"pointer-events": "none",
	"z-index":        "2147483647",
	"display":        "none",
}

// Picker lets a user point at a rendered element and reports its provenance to the parent frame.
// It cycles between Idle and Active for the life of the window.
type Picker struct {
	win           dom.Window
	logger        *slog.Logger
	rasterizer    Rasterizer
	rasterOptions RasterOptions
	ctx           context.Context

	mu        sync.Mutex
	active    bool
	hovered   dom.Element
	blocker   dom.Overlay
	highlight dom.Overlay
	listeners []int

	pending sync.WaitGroup
}

// New creates an idle picker for the window
func New(win dom.Window, opts ...Option) *Picker {
	ret := &Picker{
		win:           win,
		logger:        slog.Default(),
		rasterOptions: DefaultRasterOptions,
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Install creates a picker and wires it to window messages once the document is ready.
// It returns false when a picker was already installed in this window.
func Install(win dom.Window, opts ...Option) (*Picker, bool) {
	if win.Flag(InitializedFlag) {
		return nil, false
	}
	win.SetFlag(InitializedFlag)
	ret := New(win, opts...)
	win.WhenReady(func() {
		win.OnMessage(ret.HandleMessage)
		win.SetFlag(ReadyFlag)
	})
	return ret, true
}

// HandleMessage applies an inbound protocol message; anything unrecognized is ignored
func (p *Picker) HandleMessage(data []byte) {
	message, err := protocol.Decode(data)
	if err != nil {
		return
	}
	switch message.Kind() {
	case protocol.KindEnable:
		p.Activate()
	case protocol.KindDisable:
		p.Deactivate()
	}
}

// Activate enters Active state creating overlays once
func (p *Picker) Activate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	if p.blocker != nil || p.highlight != nil {
		return
	}
	doc := p.win.Document()
	p.blocker = doc.CreateOverlay(blockerStyle)
	p.highlight = doc.CreateOverlay(highlightStyle)
	p.listeners = []int{
		p.blocker.On(dom.EventPointerMove, p.onPointerMove),
		p.blocker.On(dom.EventClick, p.onClick),
	}
}

// Deactivate returns to Idle without emitting a selection
func (p *Picker) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deactivate()
}

// Active returns true in Active state
func (p *Picker) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Hovered returns currently highlighted element
func (p *Picker) Hovered() dom.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hovered
}

// Overlays returns blocker and highlight layers, nil while Idle
func (p *Picker) Overlays() (blocker, highlight dom.Overlay) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocker, p.highlight
}

// Wait blocks until in-flight screenshots have been posted
func (p *Picker) Wait() {
	p.pending.Wait()
}

// ResolveUnderlyingElement returns the element under the pointer, ignoring picker overlays.
// When the window exposes its event loop the lookup runs there, so no dispatch observes hidden overlays;
// it must therefore not be called from an event or message listener.
func (p *Picker) ResolveUnderlyingElement(x, y float64) dom.Element {
	var result dom.Element
	resolve := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		result = p.resolve(x, y)
	}
	if loop, ok := p.win.(dom.EventLoop); ok {
		loop.Run(resolve)
		return result
	}
	resolve()
	return result
}

// resolve hides overlays for the duration of the hit-test and restores their saved state exactly
func (p *Picker) resolve(x, y float64) dom.Element {
	restore := p.hideOverlays()
	defer restore()
	return p.win.Document().ElementFromPoint(x, y)
}

func (p *Picker) hideOverlays() (restore func()) {
	blocker, highlight := p.blocker, p.highlight
	var blockerPointer, blockerVisibility, highlightVisibility string
	if blocker != nil {
		blockerPointer = blocker.Style("pointer-events")
		blockerVisibility = blocker.Style("visibility")
		blocker.SetStyle("pointer-events", "none")
		blocker.SetStyle("visibility", "hidden")
	}
	if highlight != nil {
		highlightVisibility = highlight.Style("visibility")
		highlight.SetStyle("visibility", "hidden")
	}
	return func() {
		if blocker != nil {
			blocker.SetStyle("pointer-events", blockerPointer)
			blocker.SetStyle("visibility", blockerVisibility)
		}
		if highlight != nil {
			highlight.SetStyle("visibility", highlightVisibility)
		}
	}
}

func (p *Picker) isOverlay(el dom.Element) bool {
	return (p.blocker != nil && el == dom.Element(p.blocker)) ||
		(p.highlight != nil && el == dom.Element(p.highlight))
}

func (p *Picker) onPointerMove(event *dom.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	underlying := p.resolve(event.X, event.Y)
	if underlying == nil || p.isOverlay(underlying) {
		p.hovered = nil
		p.outline(nil)
		return
	}
	if underlying != p.hovered {
		p.hovered = underlying
		p.outline(underlying)
	}
}

func (p *Picker) onClick(event *dom.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	event.PreventDefault()
	event.StopPropagation()
	event.StopImmediatePropagation()

	var tag *Tag
	if underlying := p.resolve(event.X, event.Y); underlying != nil && !p.isOverlay(underlying) {
		tag, _ = FindTaggedAncestor(underlying)
	}
	if tag != nil {
		p.emit(tag)
	}
	p.deactivate()
}

// emit posts the selection; with a rasterizer the post happens once the screenshot settles
func (p *Picker) emit(tag *Tag) {
	payload := tag.Payload()
	if p.rasterizer == nil {
		p.post(payload)
		return
	}
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		image, err := p.rasterize(tag.Element)
		if err != nil {
			payload.Error = err.Error()
		} else {
			payload.Screenshot = image
		}
		p.post(payload)
	}()
}

func (p *Picker) rasterize(el dom.Element) (image string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rasterize: %v", r)
		}
	}()
	return p.rasterizer.Rasterize(p.ctx, el, p.rasterOptions)
}

func (p *Picker) post(payload *protocol.SelectionPayload) {
	if err := protocol.Post(p.win, payload, p.logger); err != nil && !errors.Is(err, protocol.ErrNoParent) {
		p.logger.Debug("selection dropped", "component", payload.Component, "error", err)
	}
}

func (p *Picker) outline(el dom.Element) {
	if p.highlight == nil {
		return
	}
	if el == nil {
		p.highlight.SetStyle("display", "none")
		return
	}
	box := el.Bounds()
	p.highlight.SetStyle("display", "block")
	p.highlight.SetStyle("left", px(box.Left))
	p.highlight.SetStyle("top", px(box.Top))
	p.highlight.SetStyle("width", px(box.Width))
	p.highlight.SetStyle("height", px(box.Height))
}

// deactivate tears overlays down; overlays never accumulate across activations
func (p *Picker) deactivate() {
	p.active = false
	p.hovered = nil
	if p.blocker != nil {
		for _, id := range p.listeners {
			p.blocker.Off(id)
		}
		p.blocker.Remove()
		p.blocker = nil
	}
	p.listeners = nil
	if p.highlight != nil {
		p.highlight.Remove()
		p.highlight = nil
	}
}

func px(value float64) string {
	return fmt.Sprintf("%gpx", value)
}
