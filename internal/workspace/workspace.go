// Package workspace discovers source files, loads them into source units and writes
// corrected content back. Storage goes through afs, so roots may be local paths or any
// URL scheme afs supports.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const localScheme = "file"

// DefaultExcludes are skipped during discovery unless overridden.
var DefaultExcludes = []string{"**/.*", "**/vendor", "**/node_modules"}

// Workspace reads and writes source files.
type Workspace struct {
	fs         afs.Service
	extensions map[string]bool
	excludes   []string
	loaders    int
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithExtensions restricts discovery to files with the given extensions, e.g. ".go".
func WithExtensions(exts ...string) Option {
	return func(w *Workspace) {
		for _, e := range exts {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			w.extensions[strings.ToLower(e)] = true
		}
	}
}

// WithExcludes replaces the glob patterns of paths skipped during discovery.
// Patterns are matched against paths relative to the walked root.
func WithExcludes(patterns ...string) Option {
	return func(w *Workspace) {
		w.excludes = patterns
	}
}

// WithLoaders bounds how many files are read and parsed concurrently.
func WithLoaders(n int) Option {
	return func(w *Workspace) {
		if n > 0 {
			w.loaders = n
		}
	}
}

// WithService overrides the storage service.
func WithService(fs afs.Service) Option {
	return func(w *Workspace) {
		w.fs = fs
	}
}

// New creates a workspace backed by afs.
func New(opts ...Option) (*Workspace, error) {
	w := &Workspace{
		fs:         afs.New(),
		extensions: make(map[string]bool),
		excludes:   DefaultExcludes,
		loaders:    8,
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, p := range w.excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return w, nil
}

// Discover lists the source files under roots, sorted. A root that is a file is
// returned as is.
func (w *Workspace) Discover(ctx context.Context, roots ...string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range roots {
		obj, err := w.fs.Object(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !obj.IsDir() {
			add(root)
			continue
		}

		var visitor storage.OnVisit = func(_ context.Context, baseURL, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
			rel := path.Join(parent, info.Name())
			if w.excluded(rel) {
				// Skipping a directory prunes it; files are simply not recorded.
				return !info.IsDir(), nil
			}
			if info.IsDir() || !w.wanted(info.Name()) {
				return true, nil
			}
			add(filePath(root, baseURL, rel))
			return true, nil
		}
		if err := w.fs.Walk(ctx, root, visitor); err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (w *Workspace) excluded(rel string) bool {
	for _, p := range w.excludes {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Matches reports whether a file path has one of the workspace's extensions.
func (w *Workspace) Matches(p string) bool {
	return w.wanted(path.Base(strings.ReplaceAll(p, "\\", "/")))
}

func (w *Workspace) wanted(name string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(path.Ext(name))]
}

// filePath joins a walked file onto its root. Local roots given as plain paths yield
// clean paths in the same form, relative or absolute; other roots yield URLs.
func filePath(root, baseURL, rel string) string {
	if strings.Contains(root, "://") || url.Scheme(baseURL, localScheme) != localScheme {
		return url.Join(baseURL, rel)
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// LoadError reports a file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and parses paths into source units, keeping the input order.
// Files that fail are left out; their *LoadError values are joined into the returned
// error alongside the units that did load.
func (w *Workspace) Load(ctx context.Context, parser syntax.Parser, paths []string) ([]*lint.SourceUnit, error) {
	units := make([]*lint.SourceUnit, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.loaders)
	for i, p := range paths {
		g.Go(func() error {
			content, err := w.fs.DownloadWithURL(gctx, p)
			if err != nil {
				errs[i] = &LoadError{Path: p, Err: err}
				return nil
			}
			u, err := lint.ParseUnit(gctx, parser, p, content)
			if err != nil {
				errs[i] = &LoadError{Path: p, Err: err}
				return nil
			}
			units[i] = u
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*lint.SourceUnit, 0, len(units))
	for _, u := range units {
		if u != nil {
			out = append(out, u)
		}
	}
	return out, errors.Join(errs...)
}

// WriteFile replaces the content of a file, keeping its mode.
// It implements lint.FileWriter.
func (w *Workspace) WriteFile(ctx context.Context, p string, content []byte) error {
	mode := os.FileMode(0o644)
	if obj, err := w.fs.Object(ctx, p); err == nil {
		mode = obj.Mode().Perm()
	}
	if err := w.fs.Upload(ctx, p, mode, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

var _ lint.FileWriter = (*Workspace)(nil)
