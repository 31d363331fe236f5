// Package modules loads source modules from disk, instruments the
// registered ones with runtime type checking, and caches the results.
//
// The loader is the single owner of the package scope tree: every query
// and mutation of the tree happens under the loader mutex. Loads of
// distinct modules may run concurrently, but a module imported while its
// own load is still in progress is reported as a circular import, so
// warm-up loads of the same module should come from one goroutine.
package modules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/decor"
	"github.com/jpetrucciani/beartype/internal/evaluator"
	"github.com/jpetrucciani/beartype/internal/lexer"
	"github.com/jpetrucciani/beartype/internal/parser"
	"github.com/jpetrucciani/beartype/internal/rewrite"
	"github.com/jpetrucciani/beartype/internal/runtime"
	"github.com/jpetrucciani/beartype/internal/scope"
	"github.com/jpetrucciani/beartype/internal/typistry"
	"github.com/jpetrucciani/beartype/internal/utils"
)

// Loader resolves dotted module paths to materialized module objects.
// It implements evaluator.ModuleLoader for import statements and
// typistry.Importer for call-time forward reference resolution.
type Loader struct {
	mu      sync.Mutex
	roots   []string
	scope   *scope.Tree
	modules map[string]*runtime.Module
	loading map[string]bool

	registry  *typistry.Registry
	decorator *decor.Decorator
	eval      *evaluator.Evaluator
	builtins  *evaluator.Environment
	virtual   map[string]*runtime.Module

	conf    *config.Conf
	logger  *zap.Logger
	out     io.Writer
	session string
}

// Option configures a Loader.
type Option func(*Loader)

// WithRoots sets the directories searched for module source files.
func WithRoots(roots ...string) Option {
	return func(l *Loader) {
		if len(roots) > 0 {
			l.roots = roots
		}
	}
}

// WithConf sets the configuration applied when no package registration
// covers a module.
func WithConf(conf *config.Conf) Option {
	return func(l *Loader) {
		if conf != nil {
			l.conf = conf
		}
	}
}

// WithLogger sets the logger for load and instrumentation events.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithOutput sets the writer print() output goes to.
func WithOutput(out io.Writer) Option {
	return func(l *Loader) {
		if out != nil {
			l.out = out
		}
	}
}

// New returns a loader searching the current directory by default.
func New(opts ...Option) *Loader {
	l := &Loader{
		roots:   []string{"."},
		scope:   scope.New(),
		modules: make(map[string]*runtime.Module),
		loading: make(map[string]bool),
		conf:    config.DefaultConf(),
		logger:  zap.NewNop(),
		out:     os.Stdout,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.registry = typistry.NewRegistry(l, typistry.WithLogger(l.logger))
	l.decorator = decor.New(l.registry, decor.WithLogger(l.logger))
	l.eval = evaluator.New(l.out, l)
	l.builtins = evaluator.NewEnvironment()
	evaluator.SeedBuiltins(l.builtins, l.out)
	l.virtual = map[string]*runtime.Module{
		config.InstrumentModuleName: l.instrumentModule(),
	}
	l.logger.Debug("loader ready",
		zap.String("session", l.session),
		zap.Strings("roots", l.roots))
	return l
}

// Registry exposes the type registry backing instrumented modules.
func (l *Loader) Registry() *typistry.Registry { return l.registry }

// RegisterPackages marks the named packages and their subpackages for
// instrumentation under conf. A nil conf uses the loader default.
func (l *Loader) RegisterPackages(conf *config.Conf, names ...string) error {
	if conf == nil {
		conf = l.conf
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Debug("registering packages",
		zap.Strings("packages", names), zap.String("conf", conf.String()))
	return l.scope.Register(conf, names...)
}

// RegisterAll marks every package for instrumentation under conf. A nil
// conf uses the loader default.
func (l *Loader) RegisterAll(conf *config.Conf) error {
	if conf == nil {
		conf = l.conf
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Debug("registering all packages", zap.String("conf", conf.String()))
	return l.scope.RegisterAll(conf)
}

// Load resolves a dotted module path, executing and caching the module
// on first use.
func (l *Loader) Load(name string) (*runtime.Module, error) {
	l.mu.Lock()
	if mod, ok := l.virtual[name]; ok {
		l.mu.Unlock()
		return mod, nil
	}
	if mod, ok := l.modules[name]; ok {
		l.mu.Unlock()
		return mod, nil
	}
	if l.loading[name] {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrCircularImport, name)
	}
	l.loading[name] = true
	l.mu.Unlock()
	defer l.doneLoading(name)

	path, src, ok := l.findSource(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}
	return l.materialize(name, path, src)
}

// LoadModule implements evaluator.ModuleLoader.
func (l *Loader) LoadModule(name string) (*runtime.Module, error) {
	return l.Load(name)
}

// LoadFile loads a single source file as a module named after its
// basename, bypassing the search roots.
func (l *Loader) LoadFile(path string) (*runtime.Module, error) {
	name := config.TrimSourceExt(filepath.Base(path))
	l.mu.Lock()
	if mod, ok := l.modules[name]; ok {
		l.mu.Unlock()
		return mod, nil
	}
	if l.loading[name] {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrCircularImport, name)
	}
	l.loading[name] = true
	l.mu.Unlock()
	defer l.doneLoading(name)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, path)
	}
	return l.materialize(name, path, src)
}

// ImportAttr implements typistry.Importer: it loads the module prefix of
// a qualified name and returns the named attribute. Missing modules and
// attributes wrap typistry.ErrNotFound; errors raised by module code
// propagate unchanged.
func (l *Loader) ImportAttr(name string) (runtime.Object, error) {
	modPath, attr := utils.SplitQualifiedName(name)
	if modPath == "" {
		return nil, fmt.Errorf("%w: %q has no module qualification", typistry.ErrNotFound, name)
	}
	mod, err := l.Load(modPath)
	if err != nil {
		if errors.Is(err, ErrModuleNotFound) {
			return nil, fmt.Errorf("%w: %w", typistry.ErrNotFound, err)
		}
		return nil, err
	}
	obj, ok := mod.Attr(attr)
	if !ok {
		return nil, fmt.Errorf("%w: %w: module %q has no attribute %q",
			typistry.ErrNotFound, ErrAttrNotFound, modPath, attr)
	}
	return obj, nil
}

func (l *Loader) doneLoading(name string) {
	l.mu.Lock()
	delete(l.loading, name)
	l.mu.Unlock()
}

// findSource maps a dotted module path to a file under the search roots,
// trying each recognized extension in order.
func (l *Loader) findSource(name string) (string, []byte, bool) {
	rel := filepath.Join(strings.Split(name, ".")...)
	for _, root := range l.roots {
		for _, ext := range config.SourceFileExtensions {
			path := filepath.Join(root, rel+ext)
			src, err := os.ReadFile(path)
			if err == nil {
				return path, src, true
			}
		}
	}
	return "", nil, false
}

// materialize parses, optionally instruments, and executes module source,
// then caches the resulting module object.
func (l *Loader) materialize(name, path string, src []byte) (*runtime.Module, error) {
	l.logger.Debug("loading module",
		zap.String("module", name), zap.String("path", path))

	p := parser.New(lexer.New(string(src)))
	tree := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, parseError(name, errs)
	}
	tree.File = path

	l.mu.Lock()
	instrument := l.scope.IsRegistered(name)
	l.mu.Unlock()
	if instrument && rewrite.Apply(tree) {
		l.logger.Debug("instrumented module", zap.String("module", name))
	}

	env := evaluator.NewChildEnvironment(name, l.builtins)
	for _, stmt := range tree.Statements {
		if _, _, err := l.eval.EvalStatement(stmt, env); err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
	}
	mod := &runtime.Module{
		Name:  name,
		File:  path,
		Doc:   tree.Docstring(),
		Attrs: env.GetStore(),
	}

	l.mu.Lock()
	l.modules[name] = mod
	l.mu.Unlock()
	l.logger.Debug("loaded module",
		zap.String("module", name), zap.Int("attrs", len(mod.Attrs)))
	return mod, nil
}

// decorateObject wraps a function with type checking under the
// configuration registered for its defining package, falling back to the
// loader default.
func (l *Loader) decorateObject(obj runtime.Object) (runtime.Object, error) {
	conf := l.conf
	if fn, ok := obj.(*runtime.Function); ok && fn.Module != "" {
		l.mu.Lock()
		if c := l.scope.ConfFor(fn.Module); c != nil {
			conf = c
		}
		l.mu.Unlock()
	}
	return l.decorator.Decorate(obj, conf)
}

func parseError(name string, errs []*parser.Error) error {
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return fmt.Errorf("module %q: %w", name, errors.Join(joined...))
}
