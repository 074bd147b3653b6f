package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	var testCases = []struct {
		description string
		yaml        string
		env         map[string]string
		expect      func(t *testing.T, cfg *Config)
	}{
		{
			description: "defaults",
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			description: "yaml overrides with normalized extensions",
			yaml: `tagger:
  entryPatterns: [main.tsx]
  extensions: [tsx, .JSX]
build:
  workers: 2
runtime:
  pixelRatio: 2
`,
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"main.tsx"}, cfg.Tagger.EntryPatterns)
				assert.Equal(t, []string{".tsx", ".jsx"}, cfg.Tagger.Extensions)
				assert.Equal(t, 2, cfg.Build.Workers)
				assert.Equal(t, 1024, cfg.Build.CacheSize)
				assert.Equal(t, 2.0, cfg.Runtime.PixelRatio)
			},
		},
		{
			description: "environment wins",
			yaml:        "bridge:\n  addr: \":9000\"\n",
			env:         map[string]string{EnvAddr: "7000", EnvWorkers: "8", EnvRasterizerURL: "http://localhost/h2i.js"},
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":7000", cfg.Bridge.Addr)
				assert.Equal(t, 8, cfg.Build.Workers)
				assert.Equal(t, "http://localhost/h2i.js", cfg.Runtime.RasterizerURL)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			for _, name := range []string{EnvAddr, EnvWorkers, EnvRasterizerURL} {
				t.Setenv(name, "")
			}
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			location := ""
			if testCase.yaml != "" {
				location = filepath.Join(t.TempDir(), "sourcepick.yaml")
				require.NoError(t, os.WriteFile(location, []byte(testCase.yaml), 0644))
			} else {
				chdir(t, t.TempDir())
			}
			cfg, err := Load(location)
			require.NoError(t, err)
			testCase.expect(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(previous))
	})
}
