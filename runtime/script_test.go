package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript(t *testing.T) {
	var testCases = []struct {
		description string
		options     Options
		expect      []string
	}{
		{
			description: "defaults",
			expect:      []string{`"` + DefaultRasterizerURL + `"`, "var PIXEL_RATIO = 1;"},
		},
		{
			description: "custom rasterizer",
			options:     Options{RasterizerURL: "http://localhost/h2i.js", PixelRatio: 2.5},
			expect:      []string{`"http://localhost/h2i.js"`, "var PIXEL_RATIO = 2.5;"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			script := Script(testCase.options)
			assert.NotContains(t, script, rasterizerPlaceholder)
			assert.NotContains(t, script, pixelRatioPlaceholder)
			for _, fragment := range testCase.expect {
				assert.Contains(t, script, fragment)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	script, err := Build(context.Background(), Options{})
	require.NoError(t, err)
	assert.Contains(t, script, "__sourceSelectorInitialized")
	assert.Contains(t, script, "ENABLE_SOURCE_SELECTOR")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(context.Background(), "console.log(1);"))
	assert.ErrorIs(t, Validate(context.Background(), "function ("), ErrInvalidScript)
	assert.ErrorIs(t, Validate(context.Background(), ""), ErrInvalidScript)
}
