package evaluator

import (
	"fmt"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/runtime"
)

// EvalExpr evaluates an expression to a value.
func (e *Evaluator) EvalExpr(expr ast.Expression, env *Environment) (runtime.Object, error) {
	switch x := expr.(type) {
	case *ast.Identifier:
		if obj, ok := env.Get(x.Value); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUndefined, x.Value)

	case *ast.IntegerLiteral:
		return &runtime.Int{Value: x.Value}, nil

	case *ast.FloatLiteral:
		return &runtime.Float{Value: x.Value}, nil

	case *ast.StringLiteral:
		return &runtime.Str{Value: x.Value}, nil

	case *ast.BooleanLiteral:
		return runtime.BoolOf(x.Value), nil

	case *ast.NilLiteral:
		return runtime.NilValue, nil

	case *ast.TupleLiteral:
		items, err := e.evalExprs(x.Elements, env)
		if err != nil {
			return nil, err
		}
		return &runtime.Tuple{Items: items}, nil

	case *ast.ListLiteral:
		items, err := e.evalExprs(x.Elements, env)
		if err != nil {
			return nil, err
		}
		return &runtime.List{Elements: items}, nil

	case *ast.MemberExpression:
		return e.evalMember(x, env)

	case *ast.CallExpression:
		fn, err := e.EvalExpr(x.Function, env)
		if err != nil {
			return nil, err
		}
		args, err := e.evalExprs(x.Arguments, env)
		if err != nil {
			return nil, err
		}
		return runtime.Call(fn, args)

	case *ast.PrefixExpression:
		return e.evalPrefix(x, env)

	case *ast.InfixExpression:
		return e.evalInfix(x, env)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, expr)
	}
}

func (e *Evaluator) evalExprs(exprs []ast.Expression, env *Environment) ([]runtime.Object, error) {
	items := make([]runtime.Object, len(exprs))
	for i, expr := range exprs {
		val, err := e.EvalExpr(expr, env)
		if err != nil {
			return nil, err
		}
		items[i] = val
	}
	return items, nil
}

func (e *Evaluator) evalMember(x *ast.MemberExpression, env *Environment) (runtime.Object, error) {
	obj, err := e.EvalExpr(x.Object, env)
	if err != nil {
		return nil, err
	}
	name := x.Property.Value
	switch v := obj.(type) {
	case *runtime.Module:
		if attr, ok := v.Attr(name); ok {
			return attr, nil
		}
		return nil, fmt.Errorf("%w: module %q has no attribute %q", ErrUndefined, v.Name, name)
	case *runtime.Class:
		if attr, ok := v.Attr(name); ok {
			return attr, nil
		}
		return nil, fmt.Errorf("%w: class %s has no attribute %q", ErrUndefined, v.QualifiedName(), name)
	case *runtime.Instance:
		if attr, ok := v.Class.Attr(name); ok {
			return attr, nil
		}
		return nil, fmt.Errorf("%w: %s has no attribute %q", ErrUndefined, obj.Inspect(), name)
	default:
		return nil, fmt.Errorf("%w: %s has no attributes", ErrUnsupported, obj.Inspect())
	}
}

func (e *Evaluator) evalPrefix(x *ast.PrefixExpression, env *Environment) (runtime.Object, error) {
	right, err := e.EvalExpr(x.Right, env)
	if err != nil {
		return nil, err
	}
	switch x.Operator {
	case "!":
		return runtime.BoolOf(!runtime.Truthy(right)), nil
	case "-":
		switch v := right.(type) {
		case *runtime.Int:
			return &runtime.Int{Value: -v.Value}, nil
		case *runtime.Float:
			return &runtime.Float{Value: -v.Value}, nil
		}
		return nil, fmt.Errorf("%w: -%s", ErrUnsupported, right.Inspect())
	}
	return nil, fmt.Errorf("%w: prefix %q", ErrUnsupported, x.Operator)
}

func (e *Evaluator) evalInfix(x *ast.InfixExpression, env *Environment) (runtime.Object, error) {
	left, err := e.EvalExpr(x.Left, env)
	if err != nil {
		return nil, err
	}

	// Logical operators short-circuit and yield the deciding operand.
	switch x.Operator {
	case "&&":
		if !runtime.Truthy(left) {
			return left, nil
		}
		return e.EvalExpr(x.Right, env)
	case "||":
		if runtime.Truthy(left) {
			return left, nil
		}
		return e.EvalExpr(x.Right, env)
	}

	right, err := e.EvalExpr(x.Right, env)
	if err != nil {
		return nil, err
	}

	switch x.Operator {
	case "==":
		return runtime.BoolOf(objectsEqual(left, right)), nil
	case "!=":
		return runtime.BoolOf(!objectsEqual(left, right)), nil
	}

	if l, ok := left.(*runtime.Str); ok {
		if r, ok := right.(*runtime.Str); ok {
			return evalStringInfix(x.Operator, l, r)
		}
	}
	return evalNumericInfix(x.Operator, left, right)
}

func evalStringInfix(op string, l, r *runtime.Str) (runtime.Object, error) {
	switch op {
	case "+":
		return &runtime.Str{Value: l.Value + r.Value}, nil
	case "<":
		return runtime.BoolOf(l.Value < r.Value), nil
	case ">":
		return runtime.BoolOf(l.Value > r.Value), nil
	case "<=":
		return runtime.BoolOf(l.Value <= r.Value), nil
	case ">=":
		return runtime.BoolOf(l.Value >= r.Value), nil
	}
	return nil, fmt.Errorf("%w: Str %s Str", ErrUnsupported, op)
}

func evalNumericInfix(op string, left, right runtime.Object) (runtime.Object, error) {
	li, lInt := left.(*runtime.Int)
	ri, rInt := right.(*runtime.Int)
	if lInt && rInt {
		return evalIntInfix(op, li.Value, ri.Value)
	}
	lf, lOK := asFloat(left)
	rf, rOK := asFloat(right)
	if !lOK || !rOK {
		return nil, fmt.Errorf("%w: %s %s %s", ErrUnsupported, left.Inspect(), op, right.Inspect())
	}
	return evalFloatInfix(op, lf, rf)
}

func evalIntInfix(op string, l, r int64) (runtime.Object, error) {
	switch op {
	case "+":
		return &runtime.Int{Value: l + r}, nil
	case "-":
		return &runtime.Int{Value: l - r}, nil
	case "*":
		return &runtime.Int{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &runtime.Int{Value: l / r}, nil
	case "%":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &runtime.Int{Value: l % r}, nil
	case "<":
		return runtime.BoolOf(l < r), nil
	case ">":
		return runtime.BoolOf(l > r), nil
	case "<=":
		return runtime.BoolOf(l <= r), nil
	case ">=":
		return runtime.BoolOf(l >= r), nil
	}
	return nil, fmt.Errorf("%w: Int %s Int", ErrUnsupported, op)
}

func evalFloatInfix(op string, l, r float64) (runtime.Object, error) {
	switch op {
	case "+":
		return &runtime.Float{Value: l + r}, nil
	case "-":
		return &runtime.Float{Value: l - r}, nil
	case "*":
		return &runtime.Float{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &runtime.Float{Value: l / r}, nil
	case "<":
		return runtime.BoolOf(l < r), nil
	case ">":
		return runtime.BoolOf(l > r), nil
	case "<=":
		return runtime.BoolOf(l <= r), nil
	case ">=":
		return runtime.BoolOf(l >= r), nil
	}
	return nil, fmt.Errorf("%w: Float %s Float", ErrUnsupported, op)
}

func asFloat(obj runtime.Object) (float64, bool) {
	switch v := obj.(type) {
	case *runtime.Int:
		return float64(v.Value), true
	case *runtime.Float:
		return v.Value, true
	}
	return 0, false
}

// objectsEqual compares primitives by value and everything else by
// identity.
func objectsEqual(a, b runtime.Object) bool {
	switch l := a.(type) {
	case *runtime.Int:
		if r, ok := b.(*runtime.Int); ok {
			return l.Value == r.Value
		}
		if r, ok := b.(*runtime.Float); ok {
			return float64(l.Value) == r.Value
		}
	case *runtime.Float:
		if r, ok := b.(*runtime.Float); ok {
			return l.Value == r.Value
		}
		if r, ok := b.(*runtime.Int); ok {
			return l.Value == float64(r.Value)
		}
	case *runtime.Str:
		if r, ok := b.(*runtime.Str); ok {
			return l.Value == r.Value
		}
	case *runtime.Bool:
		if r, ok := b.(*runtime.Bool); ok {
			return l.Value == r.Value
		}
	case *runtime.Nil:
		_, ok := b.(*runtime.Nil)
		return ok
	}
	return a == b
}
