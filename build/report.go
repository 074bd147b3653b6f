package build

import (
	"github.com/viant/sourcepick/source"
	"github.com/viant/sourcepick/tagger"
)

// UnitReport summarizes tagging of one unit
type UnitReport struct {
	Path       string
	Components []*tagger.Component
	Elements   int
	Injected   bool
	Cached     bool
	Err        error
}

// Static returns number of components that received a static provenance assignment
func (u *UnitReport) Static() int {
	count := 0
	for _, component := range u.Components {
		if component.Static {
			count++
		}
	}
	return count
}

// Report summarizes a compilation
type Report struct {
	Project *source.Project
	Units   []*UnitReport
	Entry   string // unit carrying the picker runtime, empty when none qualified
}

// Elements returns number of tagged elements across units
func (r *Report) Elements() int {
	total := 0
	for _, unit := range r.Units {
		total += unit.Elements
	}
	return total
}

// Failed returns units passed through because tagging failed
func (r *Report) Failed() []*UnitReport {
	var result []*UnitReport
	for _, unit := range r.Units {
		if unit.Err != nil {
			result = append(result, unit)
		}
	}
	return result
}

func newUnitReport(outcome *tagger.Outcome, cached bool) *UnitReport {
	return &UnitReport{
		Path:       outcome.Unit.Path,
		Components: outcome.Components,
		Elements:   outcome.Elements,
		Injected:   outcome.Injected,
		Cached:     cached,
		Err:        outcome.Err,
	}
}
