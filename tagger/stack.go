package tagger

import "github.com/viant/sourcepick/source"

// Stack tracks enclosing markup-containing component scopes during one traversal of a unit.
// Entries are positional: siblings resolving to the same name occupy separate entries.
type Stack struct {
	names []string
}

// Enter pushes a component name and returns the matching release; callers defer it
func (s *Stack) Enter(name string) (release func()) {
	s.names = append(s.names, name)
	depth := len(s.names)
	return func() {
		if len(s.names) >= depth {
			s.names = s.names[:depth-1]
		}
	}
}

// Top returns innermost component name or source.UnknownComponent when the stack is empty
func (s *Stack) Top() string {
	if len(s.names) == 0 {
		return source.UnknownComponent
	}
	return s.names[len(s.names)-1]
}

// Depth returns number of active scopes
func (s *Stack) Depth() int {
	return len(s.names)
}
