package tonic

// Invoker performs one zero-argument, fully-resolved invocation of a
// registered unit. It backs instanced value realization.
type Invoker func() (any, error)

// registry tracks, per namespace, the parameter names declared configurable
// by registered units, plus the invoker used for instanced realization. It
// never rejects a union: ownership policy (strict mode) lives in Config.
type registry struct {
	slots    map[string]map[string]struct{}
	invokers map[string]Invoker
}

func newRegistry() *registry {
	return &registry{
		slots:    make(map[string]map[string]struct{}),
		invokers: make(map[string]Invoker),
	}
}

func (r *registry) register(namespace string, params []string) {
	set, ok := r.slots[namespace]
	if !ok {
		set = make(map[string]struct{}, len(params))
		r.slots[namespace] = set
	}
	for _, name := range params {
		set[name] = struct{}{}
	}
}

// attachInvoker binds the invoker for namespace. When several units share a
// namespace the most recently bound one answers instanced references.
func (r *registry) attachInvoker(namespace string, invoke Invoker) {
	r.invokers[namespace] = invoke
}

func (r *registry) invoker(namespace string) (Invoker, bool) {
	invoke, ok := r.invokers[namespace]
	return invoke, ok
}

func (r *registry) hasNamespace(namespace string) bool {
	_, ok := r.slots[namespace]
	return ok
}

func (r *registry) slotsFor(namespace string) map[string]struct{} {
	set, ok := r.slots[namespace]
	if !ok {
		return nil
	}
	out := make(map[string]struct{}, len(set))
	for name := range set {
		out[name] = struct{}{}
	}
	return out
}
