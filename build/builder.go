package build

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/sourcepick/config"
	"github.com/viant/sourcepick/repository"
	"github.com/viant/sourcepick/runtime"
	"github.com/viant/sourcepick/source"
	"github.com/viant/sourcepick/tagger"
	"golang.org/x/sync/errgroup"
)

const fileScheme = "file"

// Builder tags all units of a project as one compilation
type Builder struct {
	fs       afs.Service
	config   *config.Config
	tagger   *tagger.Tagger
	detector *repository.Detector
	cache    *lru.Cache[uint64, *tagger.Outcome]
	logger   *slog.Logger
}

// Option configures a Builder
type Option func(b *Builder)

// WithFS sets file storage service
func WithFS(fs afs.Service) Option {
	return func(b *Builder) {
		b.fs = fs
	}
}

// WithLogger sets builder logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a builder
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	ret := &Builder{
		fs:       afs.New(),
		config:   cfg,
		detector: repository.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	cache, err := lru.New[uint64, *tagger.Outcome](cfg.Build.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create outcome cache: %w", err)
	}
	ret.cache = cache
	ret.tagger = tagger.New(tagger.WithLogger(ret.logger))
	return ret, nil
}

// Request represents a build request
type Request struct {
	Root   string // project location
	Output string // destination location, empty rewrites units in place
	DryRun bool   // tag without writing
}

// Build runs one compilation over all units found under the request root
func (b *Builder) Build(ctx context.Context, request *Request) (*Report, error) {
	project := b.detectProject(ctx, request.Root)
	if err := b.collect(ctx, request.Root, "", project); err != nil {
		return nil, err
	}
	project.Sort()

	outcomes := make([]*tagger.Outcome, len(project.Units))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.config.Build.Workers)
	cached := make([]bool, len(project.Units))
	for i, unit := range project.Units {
		i, unit := i, unit
		group.Go(func() error {
			outcomes[i], cached[i] = b.tag(groupCtx, unit)
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	compilation := tagger.NewCompilation(b.tagger,
		tagger.WithEntryPatterns(b.config.Tagger.EntryPatterns...),
		tagger.WithCompilationLogger(b.logger),
		tagger.WithScript(func(ctx context.Context) (string, error) {
			return runtime.Build(ctx, runtime.Options{
				RasterizerURL: b.config.Runtime.RasterizerURL,
				PixelRatio:    b.config.Runtime.PixelRatio,
			})
		}),
	)
	report := &Report{Project: project}
	output := request.Output
	if output == "" {
		output = b.config.Build.Output
	}
	for i, outcome := range outcomes {
		compilation.Inject(ctx, outcome)
		unitReport := newUnitReport(outcome, cached[i])
		report.Units = append(report.Units, unitReport)
		if request.DryRun {
			continue
		}
		if err := b.write(ctx, outcome, output, request.Root); err != nil {
			return nil, err
		}
	}
	report.Entry = compilation.Entry()
	return report, nil
}

// tag returns a private copy of the outcome so injection never mutates a cached entry
func (b *Builder) tag(ctx context.Context, unit *source.Unit) (*tagger.Outcome, bool) {
	key, err := unit.Hash()
	if err == nil {
		if outcome, ok := b.cache.Get(key); ok {
			clone := *outcome
			clone.Unit = unit
			return &clone, true
		}
	}
	outcome := b.tagger.Tag(ctx, unit)
	if outcome.Err != nil {
		b.logger.Debug("unit passed through", "path", unit.Path, "error", outcome.Err)
	}
	if err == nil && ctx.Err() == nil {
		clone := *outcome
		b.cache.Add(key, &clone)
	}
	return outcome, false
}

func (b *Builder) detectProject(ctx context.Context, root string) *source.Project {
	project := &source.Project{Name: filepath.Base(root), Type: repository.TypeUnknown, RootPath: root}
	if url.Scheme(root, fileScheme) == fileScheme {
		local := url.Path(root)
		if info, err := b.detector.DetectProject(ctx, local); err == nil {
			project.Name = info.Name
			project.Type = info.Type
			project.RootPath = info.RootPath
		}
	}
	return project
}

// collect walks location adding units with supported extensions, pruning skipped folders
func (b *Builder) collect(ctx context.Context, location, relative string, project *source.Project) error {
	objects, err := b.fs.List(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", location, err)
	}
	for _, object := range objects {
		name := object.Name()
		if sameLocation(object.URL(), location) || name == "" {
			continue
		}
		childURL := url.Join(location, name)
		childRelative := path.Join(relative, name)
		if object.IsDir() {
			if b.skipped(name) {
				continue
			}
			if err = b.collect(ctx, childURL, childRelative, project); err != nil {
				return err
			}
			continue
		}
		if !b.selected(name) {
			continue
		}
		content, err := b.fs.DownloadWithURL(ctx, childURL)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", childURL, err)
		}
		unit := source.NewUnit(b.stampedPath(project, location, childRelative, name), content)
		unit.Name = name
		unit.URL = childRelative
		project.AddUnit(unit)
	}
	return nil
}

// stampedPath returns path written into provenance records
func (b *Builder) stampedPath(project *source.Project, location, relative, name string) string {
	local := filepath.Join(url.Path(location), name)
	if !b.config.Tagger.RelativePaths {
		return local
	}
	if rel := project.Relative(local); rel != local {
		return rel
	}
	return relative
}

func (b *Builder) write(ctx context.Context, outcome *tagger.Outcome, output, root string) error {
	unchanged := bytes.Equal(outcome.Source, outcome.Unit.Content)
	if output == "" {
		if unchanged {
			return nil
		}
		output = root
	}
	destURL := url.Join(output, outcome.Unit.URL)
	if err := b.fs.Upload(ctx, destURL, 0644, bytes.NewReader(outcome.Source)); err != nil {
		return fmt.Errorf("failed to write %s: %w", destURL, err)
	}
	return nil
}

func (b *Builder) skipped(name string) bool {
	for _, candidate := range b.config.Tagger.Skip {
		if candidate == name {
			return true
		}
	}
	return false
}

func (b *Builder) selected(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if !tagger.Supported(ext) {
		return false
	}
	for _, candidate := range b.config.Tagger.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

func sameLocation(a, b string) bool {
	return strings.TrimSuffix(url.Path(a), "/") == strings.TrimSuffix(url.Path(b), "/")
}
