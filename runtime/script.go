package runtime

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

//go:embed picker.js
var pickerScript string

const (
	// DefaultRasterizerURL points at the html-to-image browser bundle
	DefaultRasterizerURL = "https://cdn.jsdelivr.net/npm/html-to-image@1.11.11/dist/html-to-image.js"
	DefaultPixelRatio    = 1.0

	rasterizerPlaceholder = "__SOURCEPICK_RASTERIZER_URL__"
	pixelRatioPlaceholder = "__SOURCEPICK_PIXEL_RATIO__"
)

// ErrInvalidScript is reported when the rendered runtime script does not parse
var ErrInvalidScript = errors.New("invalid runtime script")

// Options parameterizes the runtime script
type Options struct {
	RasterizerURL string
	PixelRatio    float64
}

// Script renders the picker runtime script
func Script(options Options) string {
	if options.RasterizerURL == "" {
		options.RasterizerURL = DefaultRasterizerURL
	}
	if options.PixelRatio <= 0 {
		options.PixelRatio = DefaultPixelRatio
	}
	URL, _ := json.Marshal(options.RasterizerURL)
	replacer := strings.NewReplacer(
		rasterizerPlaceholder, string(URL),
		pixelRatioPlaceholder, strconv.FormatFloat(options.PixelRatio, 'f', -1, 64),
	)
	return replacer.Replace(pickerScript)
}

// Build renders the script and checks it parses as a standalone script
func Build(ctx context.Context, options Options) (string, error) {
	script := Script(options)
	if err := Validate(ctx, script); err != nil {
		return "", err
	}
	return script, nil
}

// Validate parses script with the javascript grammar
func Validate(ctx context.Context, script string) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, []byte(script))
	if err != nil {
		return fmt.Errorf("failed to parse runtime script: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() || root.NamedChildCount() == 0 {
		return ErrInvalidScript
	}
	return nil
}
