package object

import (
	"context"
	"errors"
	"sync"
)

var promiseAttrs = NewAttrRegistry[*Promise]("Promise")

func init() {
	promiseAttrs.Define("then").
		Doc("Chain callbacks for fulfillment and rejection").
		OptionalArg("onFulfilled").
		OptionalArg("onRejected").
		Returns("Promise").
		Impl(func(p *Promise, ctx context.Context, args ...Object) (Object, error) {
			return p.Then(argOr(args, 0), argOr(args, 1)), nil
		})

	promiseAttrs.Define("catch").
		Doc("Chain a callback for rejection").
		Arg("onRejected").
		Returns("Promise").
		Impl(func(p *Promise, ctx context.Context, args ...Object) (Object, error) {
			return p.Then(Undefined, args[0]), nil
		})
}

// Promise is a handle to a result that settles at most once. Producers such
// as fetch settle it from another goroutine; the evaluating goroutine reads
// it with Await.
//
// Callbacks attached with then or catch run on the goroutine that awaits the
// derived promise, so script values are never touched concurrently.
type Promise struct {
	done     chan struct{}
	once     sync.Once
	value    Object
	rejected bool

	deferMu  sync.Mutex
	deferred func(ctx context.Context) (Object, error)
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// ResolvedPromise returns a promise fulfilled with value.
func ResolvedPromise(value Object) *Promise {
	if p, ok := value.(*Promise); ok {
		return p
	}
	p := NewPromise()
	p.Resolve(value)
	return p
}

// RejectedPromise returns a promise rejected with reason.
func RejectedPromise(reason Object) *Promise {
	p := NewPromise()
	p.Reject(reason)
	return p
}

// DeferredPromise returns a promise whose result is computed by fn the first
// time it is awaited.
func DeferredPromise(fn func(ctx context.Context) (Object, error)) *Promise {
	p := NewPromise()
	p.deferred = fn
	return p
}

// Resolve fulfills the promise. Later calls to Resolve or Reject are
// ignored.
func (p *Promise) Resolve(value Object) {
	p.once.Do(func() {
		p.value = value
		close(p.done)
	})
}

// Reject rejects the promise with reason. Later calls to Resolve or Reject
// are ignored.
func (p *Promise) Reject(reason Object) {
	p.once.Do(func() {
		p.value = reason
		p.rejected = true
		close(p.done)
	})
}

// Done returns a channel that is closed once the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or ctx is done. A rejection is
// returned as a *ThrownError carrying the reason.
func (p *Promise) Await(ctx context.Context) (Object, error) {
	if err := p.runDeferred(ctx); err != nil {
		return nil, err
	}
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if p.rejected {
		return nil, &ThrownError{Value: p.value}
	}
	if inner, ok := p.value.(*Promise); ok && inner != p {
		return inner.Await(ctx)
	}
	return p.value, nil
}

// runDeferred computes a deferred result once. Errors that are not
// script-level failures, such as cancellation, are returned without settling
// the promise.
func (p *Promise) runDeferred(ctx context.Context) error {
	p.deferMu.Lock()
	fn := p.deferred
	p.deferred = nil
	p.deferMu.Unlock()
	if fn == nil {
		return nil
	}
	value, err := fn(ctx)
	if err == nil {
		p.Resolve(value)
		return nil
	}
	var thrown *ThrownError
	if errors.As(err, &thrown) {
		p.Reject(thrown.Value)
		return nil
	}
	var scriptErr *Error
	if errors.As(err, &scriptErr) {
		p.Reject(scriptErr)
		return nil
	}
	return err
}

// Then returns a promise derived by applying onFulfilled or onRejected to
// this promise's outcome. Non-callable handlers pass the outcome through.
func (p *Promise) Then(onFulfilled, onRejected Object) *Promise {
	return DeferredPromise(func(ctx context.Context) (Object, error) {
		value, err := p.Await(ctx)
		var thrown *ThrownError
		if err != nil {
			if !errors.As(err, &thrown) {
				return nil, err
			}
			if fn, ok := AsCallable(onRejected); ok {
				return settleValue(ctx, fn, thrown.Value)
			}
			return nil, thrown
		}
		if fn, ok := AsCallable(onFulfilled); ok {
			return settleValue(ctx, fn, value)
		}
		return value, nil
	})
}

func settleValue(ctx context.Context, fn Callable, arg Object) (Object, error) {
	result, err := fn.Call(ctx, arg)
	if err != nil {
		return nil, err
	}
	if inner, ok := result.(*Promise); ok {
		return inner.Await(ctx)
	}
	return result, nil
}

// State returns "pending", "fulfilled" or "rejected".
func (p *Promise) State() string {
	select {
	case <-p.done:
		if p.rejected {
			return "rejected"
		}
		return "fulfilled"
	default:
		return "pending"
	}
}

func (p *Promise) Type() Type {
	return PROMISE
}

func (p *Promise) Inspect() string {
	return inspectIn(p, cycleGuard{})
}

func (p *Promise) inspect(g cycleGuard) string {
	switch p.State() {
	case "fulfilled":
		return "Promise { " + inspectIn(p.value, g) + " }"
	case "rejected":
		return "Promise { <rejected> " + inspectIn(p.value, g) + " }"
	}
	return "Promise { <pending> }"
}

func (p *Promise) goValue(g cycleGuard) any {
	return nil
}

func (p *Promise) String() string {
	return "[object Promise]"
}

func (p *Promise) Interface() interface{} {
	return nil
}

func (p *Promise) Equals(other Object) bool {
	return p == other
}

func (p *Promise) IsTruthy() bool {
	return true
}

func (p *Promise) Attrs() []AttrSpec {
	return promiseAttrs.Specs()
}

func (p *Promise) GetAttr(name string) (Object, bool) {
	return promiseAttrs.GetAttr(p, name)
}

func (p *Promise) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot create property '%s' on a Promise", name)
}

// All returns a promise that fulfills with the list of results of items,
// awaited in order, or rejects with the first rejection.
func All(items []Object) *Promise {
	return DeferredPromise(func(ctx context.Context) (Object, error) {
		out := make([]Object, len(items))
		for i, item := range items {
			p, ok := item.(*Promise)
			if !ok {
				out[i] = item
				continue
			}
			v, err := p.Await(ctx)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return NewList(out), nil
	})
}
