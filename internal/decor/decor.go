// Package decor turns annotated functions into checker wrappers.
//
// Decoration registers every hint in the signature with the typistry,
// generates the wrapper source those registrations are embedded in, and
// returns a wrapper function that validates parameters before delegating
// and the return value after. Unannotated functions and values that are
// not functions pass through untouched, as does anything already wrapped.
package decor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/runtime"
	"github.com/jpetrucciani/beartype/internal/typistry"
)

// Decorator owns the registry hints are interned in. One Decorator serves
// a whole interpreter session; per-module configuration arrives with each
// Decorate call.
type Decorator struct {
	registry *typistry.Registry
	logger   *zap.Logger
}

// Option configures a Decorator.
type Option func(*Decorator)

// WithLogger sets the logger used for violation warnings and debug dumps.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decorator) { d.logger = logger }
}

// New returns a Decorator interning hints in registry.
func New(registry *typistry.Registry, opts ...Option) *Decorator {
	d := &Decorator{registry: registry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry exposes the registry the decorator interns hints in.
func (d *Decorator) Registry() *typistry.Registry { return d.registry }

// Decorate wraps obj in a type checker when it is an annotated function.
// conf selects per-call behavior; nil means the default configuration.
// Decoration fails only when an annotation is not a usable hint; check
// failures surface later, when the wrapper is called.
func (d *Decorator) Decorate(obj runtime.Object, conf *config.Conf) (runtime.Object, error) {
	fn, ok := obj.(*runtime.Function)
	if !ok {
		return obj, nil
	}
	if fn.IsWrapper() || !annotated(fn) {
		return fn, nil
	}
	if conf == nil {
		conf = config.DefaultConf()
	}

	plan, err := d.buildPlan(fn)
	if err != nil {
		return nil, err
	}

	wrapper := &runtime.Function{
		Name:       fn.Name,
		Module:     fn.Module,
		Params:     fn.Params,
		ReturnHint: fn.ReturnHint,
		Doc:        fn.Doc,
		Wrapped:    fn,
		WrapperID:  uuid.NewString(),
		Source:     renderWrapperSource(fn, plan),
	}
	warnOnly := conf.IsWarningOnly
	wrapper.Impl = func(args []runtime.Object) (runtime.Object, error) {
		for i := range plan {
			c := &plan[i]
			if c.index < 0 || c.index >= len(args) {
				continue
			}
			ok, err := c.passes(args[c.index], d)
			if err != nil {
				return nil, err
			}
			if !ok {
				violation := &ViolationError{Func: fn.QualifiedName(), Param: c.param, Hint: c.display, Value: args[c.index]}
				if !warnOnly {
					return nil, violation
				}
				d.warn(violation)
			}
		}

		result, err := fn.Call(args)
		if err != nil {
			return nil, err
		}

		for i := range plan {
			c := &plan[i]
			if c.index >= 0 {
				continue
			}
			ok, err := c.passes(result, d)
			if err != nil {
				return nil, err
			}
			if !ok {
				violation := &ViolationError{Func: fn.QualifiedName(), Hint: c.display, Value: result}
				if !warnOnly {
					return nil, violation
				}
				d.warn(violation)
			}
		}
		return result, nil
	}

	if conf.IsDebug {
		d.logger.Debug("generated wrapper",
			zap.String("func", fn.QualifiedName()),
			zap.String("wrapper_id", wrapper.WrapperID),
			zap.String("source", wrapper.Source))
	}
	return wrapper, nil
}

func (d *Decorator) warn(v *ViolationError) {
	site := v.Param
	if site == "" {
		site = "return"
	}
	d.logger.Warn("type violation",
		zap.String("func", v.Func),
		zap.String("site", site),
		zap.String("hint", v.Hint),
		zap.String("value", v.Value.Inspect()))
}

// annotated mirrors the rewriter's eligibility rule: a return hint makes
// the function typed, otherwise any parameter hint does.
func annotated(fn *runtime.Function) bool {
	if fn.ReturnHint != nil {
		return true
	}
	for _, p := range fn.Params {
		if p.Hint != nil {
			return true
		}
	}
	return false
}
