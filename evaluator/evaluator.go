package evaluator

import (
	"context"
	stderrors "errors"

	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/deepnoodle-ai/canvasbox/op"
)

// forbiddenProperties may never be read or written, on any value.
var forbiddenProperties = map[string]bool{
	"constructor": true,
	"__proto__":   true,
}

// Evaluate evaluates node and returns its value. scope may be nil, in which
// case declarations target the overlay held by ec.
func Evaluate(ctx context.Context, node ast.Node, ec *Context, scope *Scope) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spread := ec.spread
	ec.spread = false

	ec.depth++
	defer func() { ec.depth-- }()
	if ec.depth > ec.MaxDepth {
		return nil, ec.policy(errors.DepthExceeded, ast.Offset(node),
			"Maximum evaluation depth of %d exceeded", ec.MaxDepth)
	}

	switch node := node.(type) {
	case *ast.Program:
		return evalStatements(ctx, node.Stmts, ec, scope)
	case *ast.Block:
		return evalStatements(ctx, node.Stmts, ec, scope)
	case *ast.ExprStmt:
		return Evaluate(ctx, node.X, ec, scope)
	case *ast.Empty:
		return object.Undefined, nil
	case *ast.Var:
		return evalVar(ctx, node, ec, scope)
	case *ast.If:
		return evalIf(ctx, node, ec, scope)
	case *ast.Try:
		return evalTry(ctx, node, ec, scope)
	case *ast.Throw:
		value, err := Evaluate(ctx, node.Value, ec, scope)
		if err != nil {
			return nil, err
		}
		return nil, object.NewThrownError(value)
	case *ast.Number:
		return object.NewNumber(node.Value), nil
	case *ast.String:
		return object.NewString(node.Value), nil
	case *ast.Bool:
		return object.NewBool(node.Value), nil
	case *ast.Null:
		return object.Null, nil
	case *ast.RegExp:
		return nil, ec.policy(errors.SandboxError, ast.Offset(node), "RegExp is not available")
	case *ast.Template:
		return evalTemplate(ctx, node, ec, scope)
	case *ast.Ident:
		if value, ok := resolve(ec, scope, node.Name); ok {
			return value, nil
		}
		return nil, ec.unknownIdentifier(node.Name, ast.Offset(node), scope)
	case *ast.List:
		items, err := evalElements(ctx, node.Items, ec, scope)
		if err != nil {
			return nil, err
		}
		return object.NewList(items), nil
	case *ast.Record:
		return evalRecord(ctx, node, ec, scope)
	case *ast.Spread:
		return evalSpread(ctx, node, spread, ec, scope)
	case *ast.Prefix:
		return evalPrefix(ctx, node, ec, scope)
	case *ast.Infix:
		return evalInfix(ctx, node, ec, scope)
	case *ast.Ternary:
		cond, err := Evaluate(ctx, node.Cond, ec, scope)
		if err != nil {
			return nil, err
		}
		if cond.IsTruthy() {
			return Evaluate(ctx, node.Consequence, ec, scope)
		}
		return Evaluate(ctx, node.Alternative, ec, scope)
	case *ast.GetAttr:
		return evalGetAttr(ctx, node, ec, scope)
	case *ast.Index:
		return evalIndex(ctx, node, ec, scope)
	case *ast.Call:
		return evalCall(ctx, node, ec, scope)
	case *ast.New:
		return evalNew(ctx, node, ec, scope)
	case *ast.Assign:
		return evalAssign(ctx, node, ec, scope)
	case *ast.Await:
		return evalAwait(ctx, node, ec, scope)
	}
	return nil, ec.policy(errors.UnsupportedFeature, ast.Offset(node), "Unsupported feature")
}

// scriptError classifies an error raised by a value operation. Policy
// violations and cancellation pass through untouched; everything else
// becomes a catchable script-level failure.
func scriptError(err error) error {
	if err == nil {
		return nil
	}
	if !catchable(err) {
		return err
	}
	return object.AsThrown(err)
}

// catchable reports whether a script try/catch may intercept err.
func catchable(err error) bool {
	var policy *errors.PolicyError
	if stderrors.As(err, &policy) {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func evalStatements(ctx context.Context, stmts []ast.Node, ec *Context, scope *Scope) (object.Object, error) {
	var result object.Object = object.Undefined
	for _, stmt := range stmts {
		value, err := Evaluate(ctx, stmt, ec, scope)
		if err != nil {
			return nil, err
		}
		result = value
	}
	return result, nil
}

func evalVar(ctx context.Context, node *ast.Var, ec *Context, scope *Scope) (object.Object, error) {
	for _, decl := range node.Decls {
		name := decl.Name.Name
		if visible(ec, scope, name) {
			return nil, ec.policy(errors.AlreadyDeclaredIdentifier, ast.Offset(decl.Name),
				"The identifier `%s` has already been declared", name)
		}
		var value object.Object = object.Undefined
		if decl.Value != nil {
			var err error
			if value, err = Evaluate(ctx, decl.Value, ec, scope); err != nil {
				return nil, err
			}
		}
		if err := declare(ec, scope, name, value, node.IsConst()); err != nil {
			return nil, ec.policy(errors.AlreadyDeclaredIdentifier, ast.Offset(decl.Name), "%s", err.Error())
		}
	}
	return object.Undefined, nil
}

func evalIf(ctx context.Context, node *ast.If, ec *Context, scope *Scope) (object.Object, error) {
	cond, err := Evaluate(ctx, node.Cond, ec, scope)
	if err != nil {
		return nil, err
	}
	if cond.IsTruthy() {
		return Evaluate(ctx, node.Consequence, ec, scope)
	}
	if node.Alternative != nil {
		return Evaluate(ctx, node.Alternative, ec, scope)
	}
	return object.Undefined, nil
}

func evalTry(ctx context.Context, node *ast.Try, ec *Context, scope *Scope) (object.Object, error) {
	result, err := Evaluate(ctx, node.Body, ec, scope)
	if err != nil && node.CatchBlock != nil && catchable(err) {
		thrown := object.AsThrown(err)
		ec.Logger.Debug().Str("thrown", thrown.Error()).Msg("caught script failure")
		catchScope := scope
		if node.CatchIdent != nil {
			catchScope = NewScope(scope)
			catchScope.Set(node.CatchIdent.Name, thrown.Value, false)
		}
		result, err = Evaluate(ctx, node.CatchBlock, ec, catchScope)
	}
	if node.FinallyBlock != nil {
		if _, finallyErr := Evaluate(ctx, node.FinallyBlock, ec, scope); finallyErr != nil {
			return nil, finallyErr
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func evalTemplate(ctx context.Context, node *ast.Template, ec *Context, scope *Scope) (object.Object, error) {
	var out []byte
	for _, part := range node.Parts {
		value, err := Evaluate(ctx, part, ec, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, object.ToString(value)...)
		if len(out) > object.MaxStringLength {
			return nil, object.NewThrownError(object.RangeErrorf("Invalid string length"))
		}
	}
	return object.NewString(string(out)), nil
}

// evalElements evaluates list items or call arguments left to right,
// inlining spread elements.
func evalElements(ctx context.Context, exprs []ast.Expr, ec *Context, scope *Scope) ([]object.Object, error) {
	items := make([]object.Object, 0, len(exprs))
	for _, expr := range exprs {
		ec.spread = true
		value, err := Evaluate(ctx, expr, ec, scope)
		ec.spread = false
		if err != nil {
			return nil, err
		}
		if _, ok := expr.(*ast.Spread); ok {
			items = append(items, value.(*object.List).Items()...)
		} else {
			items = append(items, value)
		}
		if len(items) > object.MaxListLength {
			return nil, object.NewThrownError(object.RangeErrorf("Invalid array length"))
		}
	}
	return items, nil
}

// evalSpread returns the spread items as a list. allowed is the flag the
// immediate parent set before dispatching this node.
func evalSpread(ctx context.Context, node *ast.Spread, allowed bool, ec *Context, scope *Scope) (object.Object, error) {
	if !allowed {
		return nil, ec.policy(errors.MisplacedSpread, ast.Offset(node.X), "Spread was not expected yet")
	}
	value, err := Evaluate(ctx, node.X, ec, scope)
	if err != nil {
		return nil, err
	}
	items, ok := object.Iterate(value)
	if !ok {
		return nil, ec.policy(errors.NotIterable, ast.Offset(node.X), "A iterable was not given")
	}
	return object.NewList(items), nil
}

func evalRecord(ctx context.Context, node *ast.Record, ec *Context, scope *Scope) (object.Object, error) {
	record := object.NewRecord()
	for _, item := range node.Items {
		var key string
		switch k := item.Key.(type) {
		case nil:
			// A spread member; dispatching it without the flag rejects it.
		case *ast.Ident:
			if item.Computed {
				value, err := Evaluate(ctx, k, ec, scope)
				if err != nil {
					return nil, err
				}
				key = object.ToPropertyKey(value)
			} else {
				key = k.Name
			}
		case *ast.String:
			key = k.Value
		case *ast.Number:
			key = object.FormatNumber(k.Value)
		default:
			value, err := Evaluate(ctx, k, ec, scope)
			if err != nil {
				return nil, err
			}
			key = object.ToPropertyKey(value)
		}
		value, err := Evaluate(ctx, item.Value, ec, scope)
		if err != nil {
			return nil, err
		}
		record.Put(key, value)
	}
	record.Seal()
	return record, nil
}

func evalPrefix(ctx context.Context, node *ast.Prefix, ec *Context, scope *Scope) (object.Object, error) {
	operand, err := Evaluate(ctx, node.X, ec, scope)
	if err != nil {
		return nil, err
	}
	opType, ok := op.LookupUnary(node.Op)
	if !ok {
		return nil, ec.unsupportedOperator(node.Op, ast.Offset(node))
	}
	fn, ok := object.LookupUnaryOp(opType)
	if !ok {
		return nil, ec.unsupportedOperator(node.Op, ast.Offset(node))
	}
	result, err := fn(operand)
	return result, scriptError(err)
}

func evalInfix(ctx context.Context, node *ast.Infix, ec *Context, scope *Scope) (object.Object, error) {
	left, err := Evaluate(ctx, node.X, ec, scope)
	if err != nil {
		return nil, err
	}
	right, err := Evaluate(ctx, node.Y, ec, scope)
	if err != nil {
		return nil, err
	}
	return ec.applyBinary(node.Op, node.OpPos.Char, left, right)
}

func (c *Context) applyBinary(symbol string, offset int, left, right object.Object) (object.Object, error) {
	opType, ok := op.LookupBinary(symbol)
	if !ok {
		return nil, c.unsupportedOperator(symbol, offset)
	}
	fn, ok := object.LookupBinaryOp(opType)
	if !ok {
		return nil, c.unsupportedOperator(symbol, offset)
	}
	result, err := fn(left, right)
	return result, scriptError(err)
}

func (c *Context) unsupportedOperator(symbol string, offset int) *errors.PolicyError {
	return c.policy(errors.UnsupportedFeature, offset, "Unsupported feature").
		WithHint("the operator `" + symbol + "` is not available")
}

func evalAwait(ctx context.Context, node *ast.Await, ec *Context, scope *Scope) (object.Object, error) {
	value, err := Evaluate(ctx, node.X, ec, scope)
	if err != nil {
		return nil, err
	}
	promise, ok := value.(*object.Promise)
	if !ok {
		return value, nil
	}
	result, err := promise.Await(ctx)
	if err != nil {
		return nil, scriptError(err)
	}
	return result, nil
}
