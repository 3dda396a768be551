package evaluator

import (
	"context"

	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/deepnoodle-ai/canvasbox/op"
)

// propertyKey evaluates the name part of a member expression.
func propertyKey(ctx context.Context, target ast.Expr, ec *Context, scope *Scope) (string, int, error) {
	switch target := target.(type) {
	case *ast.GetAttr:
		return target.Attr.Name, ast.Offset(target.Attr), nil
	case *ast.Index:
		value, err := Evaluate(ctx, target.Index, ec, scope)
		if err != nil {
			return "", 0, err
		}
		return object.ToPropertyKey(value), ast.Offset(target.Index), nil
	}
	return "", ast.Offset(target), ec.policy(errors.UnsupportedFeature, ast.Offset(target), "Unsupported feature")
}

func (c *Context) checkProperty(name string, offset int) error {
	if forbiddenProperties[name] {
		return c.policy(errors.SandboxPropertyError, offset,
			"The property access to `%s` is forbidden", name)
	}
	return nil
}

// getProperty reads a directly owned attribute of obj.
func getProperty(obj object.Object, name string) (object.Object, error) {
	if object.IsNullish(obj) {
		return nil, object.NewThrownError(object.TypeErrorf(
			"Cannot read properties of %s (reading '%s')", object.ToString(obj), name))
	}
	value, ok := obj.GetAttr(name)
	if !ok {
		return nil, object.NewThrownError(object.ReferenceErrorf("The property `%s` does not exist", name))
	}
	return value, nil
}

func evalGetAttr(ctx context.Context, node *ast.GetAttr, ec *Context, scope *Scope) (object.Object, error) {
	if err := ec.checkProperty(node.Attr.Name, ast.Offset(node.Attr)); err != nil {
		return nil, err
	}
	obj, err := Evaluate(ctx, node.X, ec, scope)
	if err != nil {
		return nil, err
	}
	return getProperty(obj, node.Attr.Name)
}

func evalIndex(ctx context.Context, node *ast.Index, ec *Context, scope *Scope) (object.Object, error) {
	obj, err := Evaluate(ctx, node.X, ec, scope)
	if err != nil {
		return nil, err
	}
	name, offset, err := propertyKey(ctx, node, ec, scope)
	if err != nil {
		return nil, err
	}
	if err := ec.checkProperty(name, offset); err != nil {
		return nil, err
	}
	return getProperty(obj, name)
}

func evalCall(ctx context.Context, node *ast.Call, ec *Context, scope *Scope) (object.Object, error) {
	callee, err := Evaluate(ctx, node.Fun, ec, scope)
	if err != nil {
		return nil, err
	}
	fn, ok := object.AsCallable(callee)
	if !ok {
		return nil, ec.policy(errors.NotCallable, ast.Offset(node.Fun), "Tried to call a non-function").
			WithHint(object.TypeOf(callee) + " `" + node.Fun.String() + "` is not callable")
	}
	args, err := evalElements(ctx, node.Args, ec, scope)
	if err != nil {
		return nil, err
	}
	result, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, scriptError(err)
	}
	return result, nil
}

func evalNew(ctx context.Context, node *ast.New, ec *Context, scope *Scope) (object.Object, error) {
	callee, err := Evaluate(ctx, node.Fun, ec, scope)
	if err != nil {
		return nil, err
	}
	ctor, ok := object.AsConstructible(callee)
	if !ok {
		return nil, ec.policy(errors.NotConstructible, ast.Offset(node.Fun), "Constructor is not a function")
	}
	args, err := evalElements(ctx, node.Args, ec, scope)
	if err != nil {
		return nil, err
	}
	result, err := ctor.Construct(ctx, args...)
	if err != nil {
		return nil, scriptError(err)
	}
	return result, nil
}

func evalAssign(ctx context.Context, node *ast.Assign, ec *Context, scope *Scope) (object.Object, error) {
	symbol := op.AssignmentOperator(node.Op)
	if symbol != "" {
		if _, ok := op.LookupBinary(symbol); !ok {
			return nil, ec.unsupportedOperator(node.Op, node.OpPos.Char)
		}
	}
	switch target := node.Target.(type) {
	case *ast.Ident:
		return assignName(ctx, node, target, symbol, ec, scope)
	case *ast.GetAttr, *ast.Index:
		return assignMember(ctx, node, symbol, ec, scope)
	}
	return nil, ec.policy(errors.UnsupportedFeature, ast.Offset(node.Target), "Unsupported feature")
}

func assignName(ctx context.Context, node *ast.Assign, target *ast.Ident, symbol string, ec *Context, scope *Scope) (object.Object, error) {
	current, ok := resolve(ec, scope, target.Name)
	if !ok {
		return nil, ec.unknownIdentifier(target.Name, ast.Offset(target), scope)
	}
	value, err := Evaluate(ctx, node.Value, ec, scope)
	if err != nil {
		return nil, err
	}
	if symbol != "" {
		if value, err = ec.applyBinary(symbol, node.OpPos.Char, current, value); err != nil {
			return nil, err
		}
	}
	if _, err := store(ec, scope, target.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func assignMember(ctx context.Context, node *ast.Assign, symbol string, ec *Context, scope *Scope) (object.Object, error) {
	var objExpr ast.Expr
	switch target := node.Target.(type) {
	case *ast.GetAttr:
		if err := ec.checkProperty(target.Attr.Name, ast.Offset(target.Attr)); err != nil {
			return nil, err
		}
		objExpr = target.X
	case *ast.Index:
		objExpr = target.X
	}
	obj, err := Evaluate(ctx, objExpr, ec, scope)
	if err != nil {
		return nil, err
	}
	name, offset, err := propertyKey(ctx, node.Target, ec, scope)
	if err != nil {
		return nil, err
	}
	if err := ec.checkProperty(name, offset); err != nil {
		return nil, err
	}
	var current object.Object
	if symbol != "" {
		if current, err = getProperty(obj, name); err != nil {
			return nil, err
		}
	}
	value, err := Evaluate(ctx, node.Value, ec, scope)
	if err != nil {
		return nil, err
	}
	if symbol != "" {
		if value, err = ec.applyBinary(symbol, node.OpPos.Char, current, value); err != nil {
			return nil, err
		}
	}
	if err := obj.SetAttr(name, value); err != nil {
		return nil, scriptError(err)
	}
	return value, nil
}
