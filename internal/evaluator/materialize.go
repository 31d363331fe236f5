package evaluator

import (
	"fmt"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/runtime"
)

// Function materializes a function definition: annotations and defaults
// evaluate now, in the defining environment, while the body waits for a
// call. Decorators are recorded outermost-first, so they apply from the
// last entry back; whatever the chain returns is what the name binds to.
func (e *Evaluator) Function(s *ast.FunctionStatement, env *Environment) (runtime.Object, error) {
	params := make([]runtime.Param, len(s.Parameters))
	for i, p := range s.Parameters {
		param := runtime.Param{Name: p.Name.Value}
		if p.Type != nil {
			hint, err := e.EvalExpr(p.Type, env)
			if err != nil {
				return nil, err
			}
			param.Hint = hint
		}
		if p.Default != nil {
			def, err := e.EvalExpr(p.Default, env)
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params[i] = param
	}

	var retHint runtime.Object
	if s.ReturnType != nil {
		var err error
		retHint, err = e.EvalExpr(s.ReturnType, env)
		if err != nil {
			return nil, err
		}
	}

	fn := &runtime.Function{
		Name:       s.Name.Value,
		Module:     env.Module(),
		Params:     params,
		ReturnHint: retHint,
		Doc:        bodyDocstring(s.Body),
	}
	fn.Impl = func(args []runtime.Object) (runtime.Object, error) {
		local := NewEnclosedEnvironment(env)
		for i, p := range fn.Params {
			local.Set(p.Name, args[i])
		}
		return e.CallBody(s.Body, local)
	}

	result := runtime.Object(fn)
	for i := len(s.Decorators) - 1; i >= 0; i-- {
		deco, err := e.EvalExpr(s.Decorators[i], env)
		if err != nil {
			return nil, err
		}
		result, err = runtime.Call(deco, []runtime.Object{result})
		if err != nil {
			return nil, fmt.Errorf("decorating %s: %w", fn.QualifiedName(), err)
		}
	}
	return result, nil
}

// Class materializes a class definition. Bases evaluate in the defining
// environment; the body runs in its own scope whose bindings become the
// class attributes.
func (e *Evaluator) Class(s *ast.ClassStatement, env *Environment) (*runtime.Class, error) {
	var bases []*runtime.Class
	for _, expr := range s.Bases {
		obj, err := e.EvalExpr(expr, env)
		if err != nil {
			return nil, err
		}
		cls, ok := obj.(*runtime.Class)
		if !ok {
			return nil, fmt.Errorf("%w: base %s of class %s is not a class", ErrUnsupported, obj.Inspect(), s.Name.Value)
		}
		bases = append(bases, cls)
	}
	if len(bases) == 0 {
		bases = []*runtime.Class{runtime.ObjectClass}
	}

	cls := &runtime.Class{
		Name:   s.Name.Value,
		Module: env.Module(),
		Bases:  bases,
		Attrs:  make(map[string]runtime.Object),
	}

	body := NewEnclosedEnvironment(env)
	for i, stmt := range s.Body.Statements {
		if i == 0 {
			if doc := ast.DocstringOf(stmt); doc != nil {
				cls.Doc = doc.Value
				continue
			}
		}
		if _, _, err := e.EvalStatement(stmt, body); err != nil {
			return nil, err
		}
	}
	for name, obj := range body.GetStore() {
		cls.Attrs[name] = obj
	}
	return cls, nil
}

// bodyDocstring extracts a leading docstring from a function body.
func bodyDocstring(body *ast.BlockStatement) string {
	if body == nil || len(body.Statements) == 0 {
		return ""
	}
	if doc := ast.DocstringOf(body.Statements[0]); doc != nil {
		return doc.Value
	}
	return ""
}
