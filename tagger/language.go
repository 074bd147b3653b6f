package tagger

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Extensions lists source extensions the tagger can parse
var Extensions = []string{".tsx", ".ts", ".mts", ".cts", ".jsx", ".js", ".mjs", ".cjs"}

// Language returns tree-sitter grammar for the given file extension
func Language(ext string) (*sitter.Language, error) {
	switch strings.ToLower(ext) {
	case ".tsx":
		return tsx.GetLanguage(), nil
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage(), nil
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), nil
	}
	return nil, fmt.Errorf("unsupported file type: %s", ext)
}

// Supported returns true if the extension can be tagged
func Supported(ext string) bool {
	_, err := Language(ext)
	return err == nil
}
