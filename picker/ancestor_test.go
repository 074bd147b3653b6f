package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sourcepick/dom"
	"github.com/viant/sourcepick/source"
)

type element struct {
	tag    string
	attrs  []dom.Attribute
	parent *element
}

func (e *element) TagName() string { return e.tag }
func (e *element) Attribute(name string) (string, bool) {
	for _, attr := range e.attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}
func (e *element) Attributes() []dom.Attribute { return e.attrs }
func (e *element) Parent() dom.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}
func (e *element) Bounds() dom.Rect { return dom.Rect{} }

// chain returns the leaf of a parent chain of depth elements, the root carrying attrs
func chain(depth int, attrs ...dom.Attribute) *element {
	node := &element{tag: "DIV", attrs: attrs}
	for i := 1; i < depth; i++ {
		node = &element{tag: "SPAN", parent: node}
	}
	return node
}

func TestFindTaggedAncestor(t *testing.T) {
	tagged := []dom.Attribute{
		{Name: source.FileAttribute, Value: "src/Card.tsx"},
		{Name: source.LineAttribute, Value: "7"},
		{Name: source.ComponentAttribute, Value: "Card"},
	}
	var testCases = []struct {
		description string
		leaf        *element
		found       bool
		component   string
		file        string
		line        string
	}{
		{description: "self", leaf: chain(1, tagged...), found: true, component: "Card", file: "src/Card.tsx", line: "7"},
		{description: "tenth node", leaf: chain(MaxAncestorDepth, tagged...), found: true, component: "Card", file: "src/Card.tsx", line: "7"},
		{description: "beyond bound", leaf: chain(MaxAncestorDepth+1, tagged...)},
		{description: "component only", leaf: chain(2, dom.Attribute{Name: source.ComponentAttribute, Value: "Nav"}), found: true, component: "Nav", file: "unknown", line: "unknown"},
		{description: "empty values are absent", leaf: chain(2, dom.Attribute{Name: source.FileAttribute, Value: ""})},
		{description: "untagged", leaf: chain(3)},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			tag, ok := FindTaggedAncestor(testCase.leaf)
			assert.Equal(t, testCase.found, ok)
			if !testCase.found {
				assert.Nil(t, tag)
				return
			}
			require.NotNil(t, tag)
			payload := tag.Payload()
			assert.Equal(t, testCase.component, payload.Component)
			assert.Equal(t, testCase.file, payload.File)
			assert.Equal(t, testCase.line, payload.Line)
		})
	}
	_, ok := FindTaggedAncestor(nil)
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	el := &element{tag: "BUTTON", attrs: []dom.Attribute{{Name: "class", Value: "primary"}, {Name: "title", Value: `say "hi"`}}}
	assert.Equal(t, `<button class="primary" title="say &quot;hi&quot;">`, Describe(el))
	assert.Equal(t, "", Describe(nil))
}
