package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sourcepick/config"
	"github.com/viant/sourcepick/repository"
)

var files = map[string]string{
	"package.json":              `{"name":"storefront","dependencies":{"next":"14.0.0","react":"18.2.0"}}`,
	"app/layout.tsx":            "export default function RootLayout({ children }) {\n  return <html><body>{children}</body></html>;\n}\n",
	"app/page.tsx":              "export default function Home() {\n  return <main/>;\n}\n",
	"app/util.ts":               "export const sum = (a: number, b: number) => a + b;\n",
	"components/Card.jsx":       "export const Card = () => <div className=\"card\"/>;\n",
	"components/Broken.jsx":     "export const Broken = () => <div>;\n",
	"styles/site.css":           "body { margin: 0; }\n",
	"node_modules/lib/index.js": "export const x = <div/>;\n",
}

func writeProject(t *testing.T) string {
	root := t.TempDir()
	for name, content := range files {
		location := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0644))
	}
	return root
}

func TestBuilder_Build(t *testing.T) {
	root := writeProject(t)
	cfg := config.Default()
	cfg.Tagger.Extensions = []string{".tsx", ".ts", ".jsx"}
	builder, err := New(cfg)
	require.NoError(t, err)

	output := t.TempDir()
	report, err := builder.Build(context.Background(), &Request{Root: root, Output: output})
	require.NoError(t, err)

	assert.Equal(t, "storefront", report.Project.Name)
	assert.Equal(t, repository.TypeNext, report.Project.Type)
	assert.Equal(t, "app/layout.tsx", report.Entry)

	var paths []string
	for _, unit := range report.Units {
		paths = append(paths, unit.Path)
	}
	assert.Equal(t, []string{"app/layout.tsx", "app/page.tsx", "app/util.ts", "components/Broken.jsx", "components/Card.jsx"}, paths)
	assert.Len(t, report.Failed(), 1)
	assert.Equal(t, 4, report.Elements())

	layout, err := os.ReadFile(filepath.Join(output, "app", "layout.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(layout), `<html data-source-file="app/layout.tsx" data-source-line="2" data-source-component="RootLayout">`)
	assert.Contains(t, string(layout), `RootLayout.__source = { file: "app/layout.tsx", line: "1", name: "RootLayout" };`)
	assert.Contains(t, string(layout), "__sourceSelectorInitialized")

	page, err := os.ReadFile(filepath.Join(output, "app", "page.tsx"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "__sourceSelectorInitialized")

	broken, err := os.ReadFile(filepath.Join(output, "components", "Broken.jsx"))
	require.NoError(t, err)
	assert.Equal(t, files["components/Broken.jsx"], string(broken))

	_, err = os.Stat(filepath.Join(output, "node_modules"))
	assert.True(t, os.IsNotExist(err))

	original, err := os.ReadFile(filepath.Join(root, "app", "layout.tsx"))
	require.NoError(t, err)
	assert.Equal(t, files["app/layout.tsx"], string(original))
}

func TestBuilder_Build_Cached(t *testing.T) {
	root := writeProject(t)
	builder, err := New(config.Default())
	require.NoError(t, err)

	first, err := builder.Build(context.Background(), &Request{Root: root, DryRun: true})
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), &Request{Root: root, DryRun: true})
	require.NoError(t, err)

	require.Equal(t, len(first.Units), len(second.Units))
	for i, unit := range second.Units {
		assert.False(t, first.Units[i].Cached)
		assert.True(t, unit.Cached, unit.Path)
		assert.Equal(t, first.Units[i].Injected, unit.Injected, unit.Path)
	}
	assert.Equal(t, "app/layout.tsx", second.Entry)

	content, err := os.ReadFile(filepath.Join(root, "app", "layout.tsx"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "data-source-file"))
}
