package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_DetectProject(t *testing.T) {
	var testCases = []struct {
		description string
		files       map[string]string
		target      string
		expectType  string
		expectName  string
		expectRel   string
	}{
		{
			description: "next project",
			files: map[string]string{
				"package.json":   `{"name":"shop","dependencies":{"next":"14.0.0"}}`,
				"app/layout.tsx": "",
			},
			target:     "app/layout.tsx",
			expectType: TypeNext,
			expectName: "shop",
			expectRel:  "app/layout.tsx",
		},
		{
			description: "react project via dev dependency",
			files: map[string]string{
				"package.json": `{"name":"widget","devDependencies":{"react":"18.0.0"}}`,
				"src/App.jsx":  "",
			},
			target:     "src",
			expectType: TypeReact,
			expectName: "widget",
			expectRel:  "src",
		},
		{
			description: "loose manifest",
			files: map[string]string{
				"package.json": "{\n  // comment\n  \"name\": \"loose\",\n}",
				"index.js":     "",
			},
			target:     "index.js",
			expectType: TypeJavaScript,
			expectName: "loose",
			expectRel:  "index.js",
		},
		{
			description: "tsconfig marker",
			files: map[string]string{
				"tsconfig.json": "{}",
				"main.tsx":      "",
			},
			target:     "main.tsx",
			expectType: TypeJavaScript,
			expectRel:  "main.tsx",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			root := t.TempDir()
			for name, content := range testCase.files {
				location := filepath.Join(root, name)
				require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
				require.NoError(t, os.WriteFile(location, []byte(content), 0644))
			}
			project, err := New().DetectProject(context.Background(), filepath.Join(root, testCase.target))
			require.NoError(t, err)
			assert.Equal(t, testCase.expectType, project.Type)
			assert.Equal(t, testCase.expectRel, project.RelativePath)
			expectName := testCase.expectName
			if expectName == "" {
				expectName = filepath.Base(project.RootPath)
			}
			assert.Equal(t, expectName, project.Name)
		})
	}
}

func TestDetector_DetectProject_Missing(t *testing.T) {
	_, err := New().DetectProject(context.Background(), filepath.Join(t.TempDir(), "absent.tsx"))
	assert.Error(t, err)
}
