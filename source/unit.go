package source

import (
	"path/filepath"
	"strings"
)

// Unit represents a single source file handed to the tagger
type Unit struct {
	Name    string // File name
	Path    string // Path stamped into provenance records
	URL     string // Location the content was read from, may differ from Path
	Content []byte // Source text
}

// NewUnit creates a unit for the supplied path and content
func NewUnit(path string, content []byte) *Unit {
	return &Unit{
		Name:    filepath.Base(path),
		Path:    path,
		URL:     path,
		Content: content,
	}
}

// Ext returns lower-cased file extension
func (u *Unit) Ext() string {
	return strings.ToLower(filepath.Ext(u.Name))
}

// Hash returns content hash of the unit, path is part of the key since it is stamped into output
func (u *Unit) Hash() (uint64, error) {
	return Hash([]byte(u.Path), []byte{0}, u.Content)
}
