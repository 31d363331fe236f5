// Package bear is the embedding API. An Engine owns a module loader and
// exposes package registration, script execution, and source expansion;
// everything the command line does goes through an Engine, so host
// programs can do the same.
package bear

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/lexer"
	"github.com/jpetrucciani/beartype/internal/modules"
	"github.com/jpetrucciani/beartype/internal/parser"
	"github.com/jpetrucciani/beartype/internal/printer"
	"github.com/jpetrucciani/beartype/internal/rewrite"
	"github.com/jpetrucciani/beartype/internal/runtime"
)

// Conf selects per-package checking behavior.
type Conf = config.Conf

// DefaultConf returns the configuration used when a registration does not
// supply one.
func DefaultConf() *Conf { return config.DefaultConf() }

// ErrNoProject reports that no bear.yaml was found walking up from the
// requested directory.
var ErrNoProject = errors.New("bear: no project file found")

type settings struct {
	roots  []string
	conf   *Conf
	logger *zap.Logger
	out    io.Writer
}

// Option configures an Engine.
type Option func(*settings)

// WithRoots sets the module search roots.
func WithRoots(roots ...string) Option {
	return func(s *settings) { s.roots = roots }
}

// WithConf sets the default checking configuration.
func WithConf(conf *Conf) Option {
	return func(s *settings) { s.conf = conf }
}

// WithLogger routes engine and loader events to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithOutput redirects script print output.
func WithOutput(out io.Writer) Option {
	return func(s *settings) { s.out = out }
}

// Engine loads, instruments, and runs modules.
type Engine struct {
	loader *modules.Loader
	logger *zap.Logger
}

// New returns an engine with no packages registered.
func New(opts ...Option) *Engine {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	var mopts []modules.Option
	if len(s.roots) > 0 {
		mopts = append(mopts, modules.WithRoots(s.roots...))
	}
	if s.conf != nil {
		mopts = append(mopts, modules.WithConf(s.conf))
	}
	if s.out != nil {
		mopts = append(mopts, modules.WithOutput(s.out))
	}
	mopts = append(mopts, modules.WithLogger(s.logger))
	return &Engine{loader: modules.New(mopts...), logger: s.logger}
}

// FromProject discovers bear.yaml from dir upward and builds an engine
// honoring its paths, packages, and checking options. Explicit options
// take precedence over the project file.
func FromProject(dir string, opts ...Option) (*Engine, error) {
	path, err := config.FindProject(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: searched from %s", ErrNoProject, dir)
	}
	return FromProjectFile(path, opts...)
}

// FromProjectFile builds an engine from an explicit project file path.
func FromProjectFile(path string, opts ...Option) (*Engine, error) {
	proj, err := config.LoadProject(path)
	if err != nil {
		return nil, err
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	conf := s.conf
	if conf == nil {
		conf = proj.Conf()
	}
	roots := s.roots
	if len(roots) == 0 {
		roots = proj.SearchRoots(path)
	}

	eng := New(WithRoots(roots...), WithConf(conf), WithLogger(s.logger), WithOutput(s.out))
	eng.logger.Debug("project loaded",
		zap.String("path", path),
		zap.Strings("packages", proj.Packages),
		zap.Bool("all", proj.All))

	if proj.All {
		if err := eng.RegisterAll(conf); err != nil {
			return nil, err
		}
	} else if len(proj.Packages) > 0 {
		if err := eng.RegisterPackages(conf, proj.Packages...); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

// RegisterPackages marks packages (and their subpackages) for
// instrumentation on load.
func (e *Engine) RegisterPackages(conf *Conf, names ...string) error {
	return e.loader.RegisterPackages(conf, names...)
}

// RegisterAll marks every package for instrumentation on load.
func (e *Engine) RegisterAll(conf *Conf) error {
	return e.loader.RegisterAll(conf)
}

// Load resolves and executes a module by dotted path.
func (e *Engine) Load(name string) (*runtime.Module, error) {
	return e.loader.Load(name)
}

// Run executes a script file: top-level statements first, then its main
// function when one is defined.
func (e *Engine) Run(path string) error {
	mod, err := e.loader.LoadFile(path)
	if err != nil {
		return err
	}
	return e.runEntry(mod)
}

// RunModule executes a module by dotted path, then its main function when
// one is defined.
func (e *Engine) RunModule(name string) error {
	mod, err := e.loader.Load(name)
	if err != nil {
		return err
	}
	return e.runEntry(mod)
}

func (e *Engine) runEntry(mod *runtime.Module) error {
	entry, ok := mod.Attr(config.EntryFuncName)
	if !ok {
		return nil
	}
	fn, ok := entry.(*runtime.Function)
	if !ok {
		return nil
	}
	if _, err := fn.Call(nil); err != nil {
		return fmt.Errorf("module %q: %w", mod.Name, err)
	}
	return nil
}

// ExpandSource instruments source text unconditionally and renders the
// result, showing exactly what a registered module executes.
func ExpandSource(src string) (string, error) {
	p := parser.New(lexer.New(src))
	tree := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return "", errors.Join(joined...)
	}
	rewrite.Apply(tree)
	return printer.Print(tree), nil
}

// ExpandFile reads a source file and returns its instrumented rendering.
func ExpandFile(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, err := ExpandSource(string(src))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
