package picker

import (
	"strings"

	"github.com/viant/sourcepick/dom"
	"github.com/viant/sourcepick/protocol"
	"github.com/viant/sourcepick/source"
)

// MaxAncestorDepth bounds the number of nodes examined, the start node included
const MaxAncestorDepth = 10

// Value represents an optional attribute value
type Value struct {
	Text    string
	Present bool
}

// Or returns the value or fallback when absent or empty
func (v Value) Or(fallback string) string {
	if !v.Present || v.Text == "" {
		return fallback
	}
	return v.Text
}

func (v Value) set() bool {
	return v.Present && v.Text != ""
}

// Tag represents provenance attributes found on an element
type Tag struct {
	Element   dom.Element
	Component Value
	File      Value
	Line      Value
}

// Payload builds selection payload; missing attributes default to "unknown"
func (t *Tag) Payload() *protocol.SelectionPayload {
	return &protocol.SelectionPayload{
		Component: t.Component.Or(source.UnknownComponent),
		File:      t.File.Or(source.UnknownComponent),
		Line:      t.Line.Or(source.UnknownComponent),
		Element:   Describe(t.Element),
	}
}

// FindTaggedAncestor walks from el towards the root returning the first element carrying provenance
func FindTaggedAncestor(el dom.Element) (*Tag, bool) {
	for attempts := 0; el != nil && attempts < MaxAncestorDepth; attempts++ {
		tag := &Tag{
			Element:   el,
			Component: attribute(el, source.ComponentAttribute),
			File:      attribute(el, source.FileAttribute),
			Line:      attribute(el, source.LineAttribute),
		}
		if tag.Component.set() || tag.File.set() || tag.Line.set() {
			return tag, true
		}
		el = el.Parent()
	}
	return nil, false
}

func attribute(el dom.Element, name string) Value {
	text, ok := el.Attribute(name)
	return Value{Text: text, Present: ok}
}

// Describe renders element opening tag with all its attributes
func Describe(el dom.Element) string {
	if el == nil {
		return ""
	}
	builder := &strings.Builder{}
	builder.WriteByte('<')
	builder.WriteString(strings.ToLower(el.TagName()))
	for _, attr := range el.Attributes() {
		builder.WriteByte(' ')
		builder.WriteString(attr.Name)
		builder.WriteString(`="`)
		builder.WriteString(strings.ReplaceAll(attr.Value, `"`, "&quot;"))
		builder.WriteByte('"')
	}
	builder.WriteByte('>')
	return builder.String()
}
