// Package evaluator executes parsed modules: statements against an
// environment, expressions to values, and function bodies on call. Imports
// are delegated to a ModuleLoader so the evaluator stays ignorant of search
// paths, caching, and instrumentation policy.
package evaluator

import (
	"errors"
	"fmt"
	"io"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/runtime"
	"github.com/jpetrucciani/beartype/internal/utils"
)

var (
	// ErrUndefined reports a name with no binding in any reachable scope.
	ErrUndefined = errors.New("evaluator: undefined name")

	// ErrUnsupported reports a syntax node the evaluator cannot execute.
	ErrUnsupported = errors.New("evaluator: unsupported syntax")
)

// ModuleLoader resolves a dotted module path to a loaded module object.
type ModuleLoader interface {
	LoadModule(name string) (*runtime.Module, error)
}

// Evaluator executes syntax trees. Out receives print output; Loader backs
// import statements and may be nil when no imports occur.
type Evaluator struct {
	Out    io.Writer
	Loader ModuleLoader
}

// New returns an Evaluator writing to out.
func New(out io.Writer, loader ModuleLoader) *Evaluator {
	return &Evaluator{Out: out, Loader: loader}
}

// EvalStatement executes one statement. The bool result reports whether a
// return statement fired, in which case the value is the returned one and
// enclosing blocks must stop.
func (e *Evaluator) EvalStatement(stmt ast.Statement, env *Environment) (runtime.Object, bool, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		val, err := e.EvalExpr(s.Expression, env)
		return val, false, err

	case *ast.VarStatement:
		val, err := e.EvalExpr(s.Value, env)
		if err != nil {
			return nil, false, err
		}
		env.Set(s.Name.Value, val)
		return val, false, nil

	case *ast.ReturnStatement:
		if s.Value == nil {
			return runtime.NilValue, true, nil
		}
		val, err := e.EvalExpr(s.Value, env)
		if err != nil {
			return nil, false, err
		}
		return val, true, nil

	case *ast.IfStatement:
		cond, err := e.EvalExpr(s.Condition, env)
		if err != nil {
			return nil, false, err
		}
		if runtime.Truthy(cond) {
			return e.EvalBlock(s.Consequence, env)
		}
		if s.Alternative != nil {
			return e.EvalBlock(s.Alternative, env)
		}
		return runtime.NilValue, false, nil

	case *ast.BlockStatement:
		return e.EvalBlock(s, env)

	case *ast.FunctionStatement:
		fn, err := e.Function(s, env)
		if err != nil {
			return nil, false, err
		}
		env.Set(s.Name.Value, fn)
		return fn, false, nil

	case *ast.ClassStatement:
		cls, err := e.Class(s, env)
		if err != nil {
			return nil, false, err
		}
		env.Set(s.Name.Value, cls)
		return cls, false, nil

	case *ast.FromImportStatement:
		if err := e.evalFromImport(s, env); err != nil {
			return nil, false, err
		}
		return runtime.NilValue, false, nil

	case *ast.ImportStatement:
		if err := e.evalImport(s, env); err != nil {
			return nil, false, err
		}
		return runtime.NilValue, false, nil

	default:
		return nil, false, fmt.Errorf("%w: %T", ErrUnsupported, stmt)
	}
}

// EvalBlock executes statements in order, stopping at the first return.
func (e *Evaluator) EvalBlock(block *ast.BlockStatement, env *Environment) (runtime.Object, bool, error) {
	result := runtime.Object(runtime.NilValue)
	for _, stmt := range block.Statements {
		val, returned, err := e.EvalStatement(stmt, env)
		if err != nil {
			return nil, false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

// CallBody runs a function body, converting a missing return into nil.
func (e *Evaluator) CallBody(body *ast.BlockStatement, env *Environment) (runtime.Object, error) {
	val, returned, err := e.EvalBlock(body, env)
	if err != nil {
		return nil, err
	}
	if !returned {
		return runtime.NilValue, nil
	}
	return val, nil
}

func (e *Evaluator) evalFromImport(s *ast.FromImportStatement, env *Environment) error {
	if s.Module == config.FutureModuleName {
		// Future-imports direct the front end and bind nothing at runtime.
		return nil
	}
	if e.Loader == nil {
		return fmt.Errorf("%w: import without a module loader", ErrUnsupported)
	}
	mod, err := e.Loader.LoadModule(s.Module)
	if err != nil {
		return err
	}
	for _, name := range s.Names {
		attr, ok := mod.Attr(name.Value)
		if !ok {
			return fmt.Errorf("%w: module %q has no attribute %q", ErrUndefined, s.Module, name.Value)
		}
		env.Set(name.Value, attr)
	}
	return nil
}

func (e *Evaluator) evalImport(s *ast.ImportStatement, env *Environment) error {
	if e.Loader == nil {
		return fmt.Errorf("%w: import without a module loader", ErrUnsupported)
	}
	mod, err := e.Loader.LoadModule(s.Module)
	if err != nil {
		return err
	}
	_, name := utils.SplitQualifiedName(s.Module)
	if s.Alias != nil {
		name = s.Alias.Value
	}
	env.Set(name, mod)
	return nil
}
