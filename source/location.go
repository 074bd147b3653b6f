package source

import (
	"strconv"
	"strings"
)

const (
	FileAttribute      = "data-source-file"
	LineAttribute      = "data-source-line"
	ComponentAttribute = "data-source-component"

	// StaticProperty is assigned on a component identity with its provenance record
	StaticProperty = "__source"

	// UnknownComponent is stamped on markup outside any component scope
	UnknownComponent = "unknown"
	// AnonymousComponent names markup-containing functions without a binding
	AnonymousComponent = "AnonymousComponent"
)

// Attribute represents a markup attribute name/value pair
type Attribute struct {
	Name  string
	Value string
}

// Location represents provenance of a component or rendered element
type Location struct {
	File      string `yaml:"file" json:"file"`
	Line      int    `yaml:"line" json:"line"`
	Component string `yaml:"component" json:"component"`
}

// Attributes returns provenance attributes in the order they are stamped
func (l *Location) Attributes() []Attribute {
	return []Attribute{
		{Name: FileAttribute, Value: l.File},
		{Name: LineAttribute, Value: strconv.Itoa(l.Line)},
		{Name: ComponentAttribute, Value: l.Component},
	}
}

// Record renders static property object literal
func (l *Location) Record() string {
	builder := &strings.Builder{}
	builder.WriteString("{ file: ")
	builder.WriteString(strconv.Quote(l.File))
	builder.WriteString(", line: ")
	builder.WriteString(strconv.Quote(strconv.Itoa(l.Line)))
	builder.WriteString(", name: ")
	builder.WriteString(strconv.Quote(l.Component))
	builder.WriteString(" }")
	return builder.String()
}

// Assignment renders the statement attaching the record to the component identity
func (l *Location) Assignment() string {
	return l.Component + "." + StaticProperty + " = " + l.Record() + ";"
}
