package load

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Element is a classpath element: the absolute path of a directory holding Go
// packages, usually a module root.
type Element string

// String implements the fmt.Stringer interface.
func (e Element) String() string { return string(e) }

// ParseElement parses a classpath element given as a filesystem path or as a
// file:// URL, and returns its absolute form.
func ParseElement(s string) (Element, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", fmt.Errorf("%w: empty path", ErrInvalidElement)
	case strings.ContainsRune(s, 0):
		return "", fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidElement, s)
	}
	path := s
	if i := strings.Index(s, "://"); i > 0 || strings.HasPrefix(s, "file:") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidElement, err)
		}
		if u.Scheme != "file" {
			return "", fmt.Errorf("%w: unsupported scheme %q in %q", ErrInvalidElement, u.Scheme, s)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("%w: remote host %q in %q", ErrInvalidElement, u.Host, s)
		}
		if path = u.Path; path == "" {
			path = u.Opaque
		}
		if path == "" {
			return "", fmt.Errorf("%w: %q has no path", ErrInvalidElement, s)
		}
	}
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidElement, err)
	}
	return Element(abs), nil
}

// Classpath is the ordered set of elements scanned for entities, together
// with the build settings used to load their packages. It is passed
// explicitly through the pipeline and never installed process-wide.
type Classpath struct {
	Elements   []Element
	BuildFlags []string
	Env        []string
	Tests      bool
	logger     *slog.Logger
}

// ClasspathOption configures a Classpath.
type ClasspathOption func(*Classpath)

// WithBuildFlags sets the build flags (e.g. "-tags=integration") used when loading packages.
func WithBuildFlags(flags ...string) ClasspathOption {
	return func(cp *Classpath) {
		cp.BuildFlags = append(cp.BuildFlags, flags...)
	}
}

// WithEnv adds "KEY=value" pairs to the environment of the go command.
func WithEnv(env ...string) ClasspathOption {
	return func(cp *Classpath) {
		cp.Env = append(cp.Env, env...)
	}
}

// WithTests includes test files in the scan.
func WithTests(tests bool) ClasspathOption {
	return func(cp *Classpath) {
		cp.Tests = tests
	}
}

// WithLogger sets the logger used to report skipped elements.
func WithLogger(l *slog.Logger) ClasspathOption {
	return func(cp *Classpath) {
		if l != nil {
			cp.logger = l
		}
	}
}

// NewClasspath builds a classpath from the given locations. An empty list
// defaults to the working directory. Duplicate locations keep their first
// position, and locations that do not exist or are not directories are
// skipped with a warning.
func NewClasspath(elements []string, opts ...ClasspathOption) (*Classpath, error) {
	cp := &Classpath{logger: slog.Default()}
	for _, opt := range opts {
		opt(cp)
	}
	if len(elements) == 0 {
		elements = []string{"."}
	}
	seen := make(map[Element]bool, len(elements))
	for _, s := range elements {
		el, err := ParseElement(s)
		if err != nil {
			return nil, err
		}
		if seen[el] {
			continue
		}
		seen[el] = true
		switch fi, err := os.Stat(string(el)); {
		case err != nil:
			cp.logger.Warn("skipping classpath element", "element", el, "error", err)
			continue
		case !fi.IsDir():
			cp.logger.Warn("skipping classpath element", "element", el, "error", "not a directory")
			continue
		}
		cp.logger.Debug("classpath element", "element", el)
		cp.Elements = append(cp.Elements, el)
	}
	return cp, nil
}

// loadMode is the information the scanner needs from go/packages.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// Config returns the package loading configuration for the given element.
func (cp *Classpath) Config(ctx context.Context, el Element) *packages.Config {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        string(el),
		BuildFlags: cp.BuildFlags,
		Tests:      cp.Tests,
	}
	if len(cp.Env) > 0 {
		cfg.Env = append(os.Environ(), cp.Env...)
	}
	return cfg
}
