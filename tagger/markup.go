package tagger

import (
	sitter "github.com/smacker/go-tree-sitter"
)

const (
	nodeProgram           = "program"
	nodeExportStatement   = "export_statement"
	nodeVariableDecl      = "variable_declarator"
	nodeIdentifier        = "identifier"
	nodeElement           = "jsx_element"
	nodeOpeningElement    = "jsx_opening_element"
	nodeSelfClosing       = "jsx_self_closing_element"
	nodeFunctionDecl      = "function_declaration"
	nodeGeneratorDecl     = "generator_function_declaration"
	nodeArrowFunction     = "arrow_function"
	nodeFunctionExpr      = "function_expression"
	nodeLegacyFunction    = "function"
	nodeGeneratorFunction = "generator_function"
)

// span identifies a node within a single tree
type span struct {
	start, end uint32
	kind       string
}

func spanOf(n *sitter.Node) span {
	return span{start: n.StartByte(), end: n.EndByte(), kind: n.Type()}
}

func isDeclaration(n *sitter.Node) bool {
	switch n.Type() {
	case nodeFunctionDecl, nodeGeneratorDecl:
		return n.IsNamed()
	}
	return false
}

func isFunctionExpression(n *sitter.Node) bool {
	switch n.Type() {
	case nodeArrowFunction, nodeFunctionExpr, nodeLegacyFunction, nodeGeneratorFunction:
		return n.IsNamed()
	}
	return false
}

func isFunctionLike(n *sitter.Node) bool {
	return isDeclaration(n) || isFunctionExpression(n)
}

// isMarkupElement reports elements that can carry attributes; fragments are excluded
func isMarkupElement(n *sitter.Node) bool {
	switch n.Type() {
	case nodeSelfClosing:
		return true
	case nodeElement:
		open := n.ChildByFieldName("open_tag")
		if open == nil && n.NamedChildCount() > 0 {
			open = n.NamedChild(0)
		}
		return open != nil && open.Type() == nodeOpeningElement && open.ChildByFieldName("name") != nil
	}
	return false
}

// isTaggable reports opening tags receiving provenance attributes
func isTaggable(n *sitter.Node) bool {
	switch n.Type() {
	case nodeSelfClosing:
		return true
	case nodeOpeningElement:
		return n.ChildByFieldName("name") != nil
	}
	return false
}

// markupIndex records function-like nodes whose subtree contains markup
type markupIndex struct {
	functions map[span]bool
	any       bool
}

// indexMarkup scans the whole tree once; markup nested in conditionals, callbacks or helpers counts
func indexMarkup(root *sitter.Node) *markupIndex {
	index := &markupIndex{functions: map[span]bool{}}
	index.any = index.scan(root)
	return index
}

func (m *markupIndex) scan(n *sitter.Node) bool {
	found := isMarkupElement(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if m.scan(n.NamedChild(i)) {
			found = true
		}
	}
	if found && isFunctionLike(n) {
		m.functions[spanOf(n)] = true
	}
	return found
}

func (m *markupIndex) contains(n *sitter.Node) bool {
	return m.functions[spanOf(n)]
}

// closingOffset returns byte offset of the closing token ('>' or '/>') of an opening tag
func closingOffset(n *sitter.Node) uint32 {
	offset := n.EndByte()
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		child := n.Child(i)
		if child.IsNamed() {
			break
		}
		switch child.Type() {
		case ">", "/", "/>":
			offset = child.StartByte()
			continue
		}
		break
	}
	return offset
}
