package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvAddr          = "SOURCEPICK_ADDR"
	EnvRasterizerURL = "SOURCEPICK_RASTERIZER_URL"
	EnvWorkers       = "SOURCEPICK_WORKERS"

	DefaultFile = "sourcepick.yaml"
)

// Config represents tool configuration
type Config struct {
	Tagger  Tagger  `yaml:"tagger"`
	Runtime Runtime `yaml:"runtime"`
	Bridge  Bridge  `yaml:"bridge"`
	Build   Build   `yaml:"build"`
}

// Tagger controls which units are tagged and which receive the runtime
type Tagger struct {
	EntryPatterns []string `yaml:"entryPatterns,omitempty"`
	Extensions    []string `yaml:"extensions,omitempty"`
	Skip          []string `yaml:"skip,omitempty"`
	RelativePaths bool     `yaml:"relativePaths"`
}

// Runtime parameterizes the injected picker script
type Runtime struct {
	RasterizerURL string  `yaml:"rasterizerURL,omitempty"`
	PixelRatio    float64 `yaml:"pixelRatio,omitempty"`
}

// Bridge configures the websocket relay
type Bridge struct {
	Addr string `yaml:"addr,omitempty"`
}

// Build configures project compilation
type Build struct {
	Workers   int    `yaml:"workers,omitempty"`
	CacheSize int    `yaml:"cacheSize,omitempty"`
	Output    string `yaml:"output,omitempty"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Tagger: Tagger{
			EntryPatterns: []string{"layout.tsx", "_app", "page.tsx"},
			Extensions:    []string{".tsx", ".jsx", ".js"},
			Skip:          []string{"node_modules", ".next", "dist", "build", ".git"},
			RelativePaths: true,
		},
		Runtime: Runtime{
			RasterizerURL: "https://cdn.jsdelivr.net/npm/html-to-image@1.11.11/dist/html-to-image.js",
			PixelRatio:    1,
		},
		Bridge: Bridge{Addr: ":8787"},
		Build:  Build{Workers: 4, CacheSize: 1024},
	}
}

// Load reads configuration from location (optional) and applies environment overrides.
// A missing default file is not an error.
func Load(location string) (*Config, error) {
	_ = godotenv.Load()
	ret := Default()
	path := location
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(data, ret); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && location == "":
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	ret.applyEnv()
	ret.normalize()
	return ret, nil
}

func (c *Config) applyEnv() {
	if addr := strings.TrimSpace(os.Getenv(EnvAddr)); addr != "" {
		if !strings.Contains(addr, ":") {
			addr = ":" + addr
		}
		c.Bridge.Addr = addr
	}
	if URL := strings.TrimSpace(os.Getenv(EnvRasterizerURL)); URL != "" {
		c.Runtime.RasterizerURL = URL
	}
	if raw := strings.TrimSpace(os.Getenv(EnvWorkers)); raw != "" {
		if workers, err := strconv.Atoi(raw); err == nil && workers > 0 {
			c.Build.Workers = workers
		}
	}
}

func (c *Config) normalize() {
	defaults := Default()
	if len(c.Tagger.EntryPatterns) == 0 {
		c.Tagger.EntryPatterns = defaults.Tagger.EntryPatterns
	}
	if len(c.Tagger.Extensions) == 0 {
		c.Tagger.Extensions = defaults.Tagger.Extensions
	}
	for i, ext := range c.Tagger.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Tagger.Extensions[i] = ext
	}
	if c.Build.Workers <= 0 {
		c.Build.Workers = defaults.Build.Workers
	}
	if c.Build.CacheSize <= 0 {
		c.Build.CacheSize = defaults.Build.CacheSize
	}
	if c.Runtime.PixelRatio <= 0 {
		c.Runtime.PixelRatio = defaults.Runtime.PixelRatio
	}
}
