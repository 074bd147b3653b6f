package tagger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/sourcepick/source"
)

// ErrSyntax is reported when a unit does not parse cleanly; such units pass through untouched
var ErrSyntax = errors.New("syntax error")

// Component represents a markup-containing function scope found in a unit
type Component struct {
	source.Location
	Static bool // true when a static provenance assignment was appended
}

// Outcome represents the result of tagging one unit.
// Err is informational: Source always holds a usable unit, tagged as far as tagging got.
type Outcome struct {
	Unit       *source.Unit
	Source     []byte
	Components []*Component
	Elements   int
	HasMarkup  bool
	Injected   bool
	Err        error
}

// Tagger stamps provenance metadata onto components and markup elements of a source unit.
// Tagging assumes a single pass: tagging already tagged output appends duplicates.
type Tagger struct {
	logger *slog.Logger
}

// New creates a tagger
func New(opts ...Option) *Tagger {
	ret := &Tagger{logger: slog.Default()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Tag parses and tags the supplied unit. It never fails: problems are reported in Outcome.Err
func (t *Tagger) Tag(ctx context.Context, unit *source.Unit) *Outcome {
	outcome := &Outcome{Unit: unit, Source: unit.Content}
	language, err := Language(unit.Ext())
	if err != nil {
		outcome.Err = err
		return outcome
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(ctx, nil, unit.Content)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to parse %s: %w", unit.Path, err)
		return outcome
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		outcome.Err = fmt.Errorf("failed to parse %s: %w", unit.Path, ErrSyntax)
		return outcome
	}

	index := indexMarkup(root)
	outcome.HasMarkup = index.any
	if !index.any {
		return outcome
	}
	w := &walker{
		src:     unit.Content,
		path:    unit.Path,
		index:   index,
		stack:   &Stack{},
		outcome: outcome,
		edits:   &edits{},
	}
	if err = w.run(root); err != nil {
		outcome.Err = err
		t.logger.Debug("tagging incomplete", "path", unit.Path, "error", err, "edits", w.edits.len())
	}
	outcome.Source = w.edits.apply(unit.Content)
	return outcome
}

// walker carries the state of one traversal of one unit
type walker struct {
	src     []byte
	path    string
	index   *markupIndex
	stack   *Stack
	outcome *Outcome
	edits   *edits
}

func (w *walker) run(root *sitter.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to tag %s: %v", w.path, r)
		}
	}()
	w.visit(root, nil)
	return nil
}

func (w *walker) visit(n *sitter.Node, parent *sitter.Node) {
	if isFunctionLike(n) && w.index.contains(n) {
		name := w.componentName(n, parent)
		release := w.stack.Enter(name)
		defer release()
		component := &Component{Location: source.Location{File: w.path, Line: line(n), Component: name}}
		if isDeclaration(n) && name != source.AnonymousComponent {
			w.appendStatic(n, parent, &component.Location)
			component.Static = true
		}
		w.outcome.Components = append(w.outcome.Components, component)
	}
	if isTaggable(n) {
		location := &source.Location{File: w.path, Line: line(n), Component: w.stack.Top()}
		offset := closingOffset(n)
		text := attributeText(location)
		if offset > 0 && isSpace(w.src[offset-1]) {
			text = text[1:]
		}
		w.edits.insert(offset, text)
		w.outcome.Elements++
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.visit(n.NamedChild(i), n)
	}
}

// componentName resolves declaration name, then variable binding, then function expression name
func (w *walker) componentName(n *sitter.Node, parent *sitter.Node) string {
	if isDeclaration(n) {
		if name := n.ChildByFieldName("name"); name != nil {
			return name.Content(w.src)
		}
		return source.AnonymousComponent
	}
	if parent != nil && parent.Type() == nodeVariableDecl {
		value := parent.ChildByFieldName("value")
		name := parent.ChildByFieldName("name")
		if value != nil && spanOf(value) == spanOf(n) && name != nil && name.Type() == nodeIdentifier {
			return name.Content(w.src)
		}
	}
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(w.src)
	}
	return source.AnonymousComponent
}

// appendStatic inserts the provenance assignment right after the declaration statement
func (w *walker) appendStatic(n *sitter.Node, parent *sitter.Node, location *source.Location) {
	statement := n
	if parent != nil && parent.Type() == nodeExportStatement {
		statement = parent
	}
	w.edits.insert(statement.EndByte(), "\n"+location.Assignment())
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
