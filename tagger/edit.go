package tagger

import (
	"sort"
	"strconv"
	"strings"

	"github.com/viant/sourcepick/source"
)

// insertion represents text inserted at a byte offset of the original source
type insertion struct {
	offset uint32
	text   string
}

// edits accumulates insertions in visiting order
type edits struct {
	items []insertion
}

func (e *edits) insert(offset uint32, text string) {
	e.items = append(e.items, insertion{offset: offset, text: text})
}

func (e *edits) len() int {
	return len(e.items)
}

// apply returns source with all insertions; insertions sharing an offset keep visiting order
func (e *edits) apply(src []byte) []byte {
	if len(e.items) == 0 {
		return src
	}
	items := make([]insertion, len(e.items))
	copy(items, e.items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].offset < items[j].offset
	})
	size := len(src)
	for _, item := range items {
		size += len(item.text)
	}
	result := make([]byte, 0, size)
	prev := 0
	for _, item := range items {
		offset := int(item.offset)
		if offset > len(src) {
			offset = len(src)
		}
		result = append(result, src[prev:offset]...)
		result = append(result, item.text...)
		prev = offset
	}
	return append(result, src[prev:]...)
}

// attributeText renders provenance attributes appended to an opening tag
func attributeText(location *source.Location) string {
	builder := &strings.Builder{}
	for _, attr := range location.Attributes() {
		builder.WriteByte(' ')
		builder.WriteString(attr.Name)
		builder.WriteByte('=')
		builder.WriteString(attributeValue(attr.Value))
	}
	return builder.String()
}

// attributeValue quotes a JSX attribute value; values JSX strings cannot carry verbatim use an expression container
func attributeValue(value string) string {
	if strings.ContainsAny(value, "\"&{}\n\r") {
		return "{" + strconv.Quote(value) + "}"
	}
	return `"` + value + `"`
}
