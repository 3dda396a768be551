package object

// cycleGuard holds the containers on the current walk path, so values that
// contain themselves are visited once.
type cycleGuard map[Object]struct{}

func (g cycleGuard) enter(obj Object) bool {
	if _, ok := g[obj]; ok {
		return false
	}
	g[obj] = struct{}{}
	return true
}

func (g cycleGuard) leave(obj Object) {
	delete(g, obj)
}

// container is implemented by values that may hold other values.
type container interface {
	inspect(g cycleGuard) string
	goValue(g cycleGuard) any
}

// inspectIn renders obj, printing [Circular] for a container that is
// already being rendered.
func inspectIn(obj Object, g cycleGuard) string {
	c, ok := obj.(container)
	if !ok {
		return obj.Inspect()
	}
	if !g.enter(obj) {
		return "[Circular]"
	}
	defer g.leave(obj)
	return c.inspect(g)
}

// goValueIn converts obj to Go data. A container reached again through
// itself becomes nil.
func goValueIn(obj Object, g cycleGuard) any {
	c, ok := obj.(container)
	if !ok {
		return obj.Interface()
	}
	if !g.enter(obj) {
		return nil
	}
	defer g.leave(obj)
	return c.goValue(g)
}
