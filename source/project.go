package source

import (
	"path/filepath"
	"sort"
	"strings"
)

// Project represents a front-end project with its source units
type Project struct {
	Name     string
	Type     string
	RootPath string
	Units    []*Unit
	unitMap  map[string]int //position
}

// AddUnit adds a unit to the project
func (p *Project) AddUnit(unit *Unit) {
	if p.unitMap == nil {
		p.unitMap = make(map[string]int)
	}
	p.Units = append(p.Units, unit)
	p.unitMap[unit.URL] = len(p.Units) - 1
}

// LookupUnit retrieves a unit by its URL
func (p *Project) LookupUnit(URL string) *Unit {
	if idx, ok := p.unitMap[URL]; ok && idx < len(p.Units) {
		return p.Units[idx]
	}
	return nil
}

// Sort orders units by URL, giving compilation a deterministic visiting order
func (p *Project) Sort() {
	sort.SliceStable(p.Units, func(i, j int) bool {
		return p.Units[i].URL < p.Units[j].URL
	})
	p.unitMap = make(map[string]int)
	for i, unit := range p.Units {
		p.unitMap[unit.URL] = i
	}
}

// Relative returns path relative to the project root using forward slashes
func (p *Project) Relative(path string) string {
	if p.RootPath == "" {
		return path
	}
	relPath, err := filepath.Rel(p.RootPath, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return path
	}
	return filepath.ToSlash(relPath)
}
