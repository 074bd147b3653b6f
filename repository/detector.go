package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
)

const (
	TypeNext       = "next"
	TypeReact      = "react"
	TypeJavaScript = "javascript"
	TypeGit        = "git"
	TypeUnknown    = "unknown"
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	// Common project root marker files/directories
	markers []string
	fs      afs.Service
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		markers: []string{
			"package.json",  // Node projects
			"tsconfig.json", // TypeScript projects without package.json
			"jsconfig.json", // JavaScript projects without package.json
			".git",          // Generic VCS marker
		},
		fs: afs.New(),
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(ctx context.Context, filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, marker := d.findProjectRoot(startDir)
	info := &Project{
		Type:     TypeUnknown,
		RootPath: startDir,
	}
	if rootPath != "" {
		info.RootPath = rootPath
		info.Type = d.determineProjectType(ctx, rootPath, marker)
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	info.Name = d.extractProjectName(ctx, info.RootPath, marker)
	return info, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, marker
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// determineProjectType identifies the type of project based on the marker file and its dependencies
func (d *Detector) determineProjectType(ctx context.Context, rootPath, marker string) string {
	switch marker {
	case ".git":
		return TypeGit
	case "tsconfig.json", "jsconfig.json":
		return TypeJavaScript
	}
	manifest, ok := d.loadManifest(ctx, filepath.Join(rootPath, "package.json"))
	if !ok {
		return TypeJavaScript
	}
	if manifest.hasDependency("next") {
		return TypeNext
	}
	if manifest.hasDependency("react") {
		return TypeReact
	}
	return TypeJavaScript
}

// extractProjectName attempts to extract a project name from package.json, falling back to directory name
func (d *Detector) extractProjectName(ctx context.Context, rootPath, marker string) string {
	if marker == "package.json" {
		if manifest, ok := d.loadManifest(ctx, filepath.Join(rootPath, marker)); ok && manifest.Name != "" {
			return manifest.Name
		}
		if name := extractPackageName(d.fs, ctx, filepath.Join(rootPath, marker)); name != "" {
			return name
		}
	}
	return filepath.Base(rootPath)
}

type manifest struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (m *manifest) hasDependency(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

func (d *Detector) loadManifest(ctx context.Context, location string) (*manifest, bool) {
	data, err := d.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, false
	}
	result := &manifest{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, false
	}
	return result, true
}

var nameRegex = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

// extractPackageName handles manifests that are not strict JSON (comments, trailing commas)
func extractPackageName(fs afs.Service, ctx context.Context, location string) string {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return ""
	}
	matches := nameRegex.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}
