package tonic

import "fmt"

// Args holds named parameter values for one unit invocation.
type Args map[string]any

// UnitFunc is the callable behind a configurable unit. It receives every
// declared parameter fully resolved.
type UnitFunc func(Args) (any, error)

// Unit binds one callable with default-valued parameters to a namespace.
// Several units may share a namespace, unioning their parameter sets;
// instanced references to the namespace invoke the most recently bound unit.
type Unit struct {
	cfg       *Config
	namespace string
	defaults  Args
	fn        UnitFunc
}

// Unit registers fn under namespace with the given parameter defaults. The
// parameter names are the keys of defaults. In strict mode binding to an
// already registered namespace fails with ErrRegistrationConflict, raised
// synchronously.
func (c *Config) Unit(namespace string, defaults Args, fn UnitFunc) (*Unit, error) {
	if fn == nil {
		return nil, fmt.Errorf("tonic: unit %q requires a function", namespace)
	}
	if !validNamespace(namespace) {
		return nil, fmt.Errorf("%w: namespace %q", ErrMalformedKey, namespace)
	}
	params := make([]string, 0, len(defaults))
	for name := range defaults {
		if !validParam(name) {
			return nil, fmt.Errorf("%w: parameter %q", ErrMalformedKey, name)
		}
		params = append(params, name)
	}

	cloned := make(Args, len(defaults))
	for name, value := range defaults {
		cloned[name] = value
	}
	unit := &Unit{
		cfg:       c,
		namespace: namespace,
		defaults:  cloned,
		fn:        fn,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.strict && c.reg.hasNamespace(namespace) {
		return nil, fmt.Errorf("%w: %s", ErrRegistrationConflict, namespace)
	}
	c.reg.register(namespace, params)
	c.reg.attachInvoker(namespace, func() (any, error) {
		return unit.callLocked(nil)
	})
	return unit, nil
}

// Namespace returns the namespace the unit is bound to.
func (u *Unit) Namespace() string {
	return u.namespace
}

// Call invokes the unit. Every declared parameter is resolved in precedence
// order (explicit argument, namespace entry, wildcard entry, unit default)
// before fn runs. Explicit keys that are not declared parameters are an
// error.
func (u *Unit) Call(explicit Args) (any, error) {
	u.cfg.mu.Lock()
	defer u.cfg.mu.Unlock()
	return u.callLocked(explicit)
}

// callLocked assumes the config lock is held; it is also the invoker behind
// instanced references to the unit's namespace, which recurse within one
// resolve.
func (u *Unit) callLocked(explicit Args) (any, error) {
	for name := range explicit {
		if _, ok := u.defaults[name]; !ok {
			return nil, fmt.Errorf("tonic: unit %q has no parameter %q", u.namespace, name)
		}
	}

	resolved := make(Args, len(u.defaults))
	for name, fallback := range u.defaults {
		arg := NoArg
		if value, ok := explicit[name]; ok {
			arg = ArgOf(value)
		}
		res, err := u.cfg.resolveLocked(u.namespace, name, arg)
		if err != nil {
			return nil, err
		}
		if res.Configured() {
			resolved[name] = res.Value
		} else {
			resolved[name] = fallback
		}
	}
	return u.fn(resolved)
}
