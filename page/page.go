// Package page provides an in-memory rendered page: elements parsed from HTML,
// box geometry from inline styles, hit-testing and event dispatch on a single event loop.
package page

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/viant/sourcepick/dom"
	"golang.org/x/net/html"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// Page represents a loaded document together with its window
type Page struct {
	mu       sync.RWMutex
	loop     sync.Mutex
	root     *Node
	body     *Node
	width    float64
	height   float64
	sequence int

	parent   dom.Frame
	flags    map[string]bool
	messages []func(data []byte)
	loading  bool
	onReady  []func()
}

// Option configures a Page
type Option func(p *Page)

// WithViewport sets viewport size
func WithViewport(width, height float64) Option {
	return func(p *Page) {
		p.width, p.height = width, height
	}
}

// WithParent embeds the page in a parent frame
func WithParent(parent dom.Frame) Option {
	return func(p *Page) {
		p.parent = parent
	}
}

// WithLoading keeps the document in loading state until Ready is called
func WithLoading() Option {
	return func(p *Page) {
		p.loading = true
	}
}

// Parse builds a page from HTML
func Parse(r io.Reader, opts ...Option) (*Page, error) {
	document, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	ret := &Page{width: DefaultWidth, height: DefaultHeight, flags: map[string]bool{}}
	for _, opt := range opts {
		opt(ret)
	}
	for child := document.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			ret.root = ret.convert(child, nil)
			break
		}
	}
	if ret.root == nil {
		return nil, fmt.Errorf("failed to parse page: missing root element")
	}
	ret.body = ret.find(ret.root, "body")
	if ret.body == nil {
		ret.body = ret.root
	}
	return ret, nil
}

// ParseString builds a page from HTML text
func ParseString(text string, opts ...Option) (*Page, error) {
	return Parse(strings.NewReader(text), opts...)
}

func (p *Page) convert(source *html.Node, parent *Node) *Node {
	node := &Node{page: p, tag: strings.ToLower(source.Data), parent: parent, style: map[string]string{}}
	for _, attr := range source.Attr {
		node.attrs = append(node.attrs, dom.Attribute{Name: attr.Key, Value: attr.Val})
		if attr.Key == "style" {
			node.style = parseStyle(attr.Val)
		}
	}
	for child := source.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			node.children = append(node.children, p.convert(child, node))
		}
	}
	return node
}

func (p *Page) find(node *Node, tag string) *Node {
	if node.tag == tag {
		return node
	}
	for _, child := range node.children {
		if found := p.find(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// Root returns document element
func (p *Page) Root() *Node {
	return p.root
}

// Body returns body element
func (p *Page) Body() *Node {
	return p.body
}

// ElementByID returns element with matching id attribute
func (p *Page) ElementByID(id string) *Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var result *Node
	p.walk(p.root, func(node *Node) bool {
		for _, attr := range node.attrs {
			if attr.Name == "id" && attr.Value == id {
				result = node
				return false
			}
		}
		return true
	})
	return result
}

func (p *Page) walk(node *Node, visit func(node *Node) bool) bool {
	if !visit(node) {
		return false
	}
	for _, child := range node.children {
		if !p.walk(child, visit) {
			return false
		}
	}
	return true
}

// ElementFromPoint returns top-most hit-testable element at the point
func (p *Page) ElementFromPoint(x, y float64) dom.Element {
	if node := p.hitTest(x, y); node != nil {
		return node
	}
	return nil
}

type candidate struct {
	node  *Node
	z     int
	order int
}

// hitTest orders painted boxes by z-index then document order
func (p *Page) hitTest(x, y float64) *Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var candidates []candidate
	order := 0
	var collect func(node *Node, visible, interactive bool)
	collect = func(node *Node, visible, interactive bool) {
		if node.style["display"] == "none" {
			return
		}
		switch node.style["visibility"] {
		case "hidden", "collapse":
			visible = false
		case "visible":
			visible = true
		}
		switch node.style["pointer-events"] {
		case "none":
			interactive = false
		case "":
		default:
			interactive = true
		}
		order++
		if visible && interactive && node.bounds().Contains(x, y) {
			candidates = append(candidates, candidate{node: node, z: node.zIndex(), order: order})
		}
		for _, child := range node.children {
			collect(child, visible, interactive)
		}
	}
	collect(p.root, true, true)
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].z != candidates[j].z {
			return candidates[i].z < candidates[j].z
		}
		return candidates[i].order < candidates[j].order
	})
	return candidates[len(candidates)-1].node
}

// CreateOverlay appends a styled div to the body
func (p *Page) CreateOverlay(style map[string]string) dom.Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()
	node := &Node{page: p, tag: "div", parent: p.body, style: map[string]string{}}
	for k, v := range style {
		node.style[k] = v
	}
	p.body.children = append(p.body.children, node)
	return node
}

// Contains returns true if node is attached to the document
func (p *Page) Contains(node *Node) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for current := node; current != nil; current = current.parent {
		if current == p.root {
			return true
		}
	}
	return false
}
