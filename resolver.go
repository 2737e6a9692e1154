package tonic

import (
	"fmt"
	"time"
)

// Arg carries an optional explicit call-site value so resolution can tell "no
// explicit argument" apart from an explicit nil.
type Arg struct {
	Value   any
	Present bool
}

// ArgOf wraps an explicit call-site value.
func ArgOf(value any) Arg {
	return Arg{Value: value, Present: true}
}

// NoArg marks a parameter the caller did not supply.
var NoArg = Arg{}

// Source identifies which precedence level produced a resolved value.
type Source int

const (
	// SourceNone means no override matched; the caller keeps its default.
	SourceNone Source = iota
	// SourceExplicit means the caller supplied the value directly.
	SourceExplicit
	// SourceNamespace means an exact-namespace entry matched.
	SourceNamespace
	// SourceWildcard means only the wildcard entry matched.
	SourceWildcard
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceNamespace:
		return "namespace"
	case SourceWildcard:
		return "wildcard"
	default:
		return "none"
	}
}

// Resolution is the outcome of resolving one parameter.
type Resolution struct {
	Value  any
	Source Source
}

// Configured reports whether any value was produced. When false the unit's
// own default applies.
func (r Resolution) Configured() bool {
	return r.Source != SourceNone
}

// Resolve returns the effective value for one parameter in strict precedence
// order: the explicit argument if present, then the exact-namespace entry,
// then the wildcard entry, else an unconfigured Resolution. Instanced and
// computed winners are realized (memoized per generation) rather than
// returned raw; realization failures surface as errors, never as silent
// fallbacks.
func (c *Config) Resolve(namespace, param string, explicit Arg) (Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked(namespace, param, explicit)
}

func (c *Config) resolveLocked(namespace, param string, explicit Arg) (Resolution, error) {
	if explicit.Present {
		return Resolution{Value: explicit.Value, Source: SourceExplicit}, nil
	}

	slot := Key{Namespace: namespace, Param: param}
	if entry, ok := c.store.get(slot); ok {
		value, err := c.realizeLocked(slot, entry)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Value: value, Source: SourceNamespace}, nil
	}
	if entry, ok := c.store.get(Key{Namespace: Wildcard, Param: param}); ok {
		// The cache key stays the concrete slot: two namespaces sharing one
		// wildcard instanced entry each realize their own value.
		value, err := c.realizeLocked(slot, entry)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Value: value, Source: SourceWildcard}, nil
	}
	return Resolution{}, nil
}

func (c *Config) realizeLocked(slot Key, entry Entry) (any, error) {
	switch entry.Kind {
	case KindLiteral:
		return entry.Value, nil

	case KindInstanced:
		target, _ := entry.Value.(string)
		invoke, ok := c.reg.invoker(target)
		if !ok {
			return nil, fmt.Errorf("%w: %s references %q", ErrInstancedTargetMissing, slot, target)
		}
		return c.cache.getOrCompute(c.store.generation, slot, func() (any, error) {
			start := time.Now()
			value, err := invoke()
			err = wrapRealizeError(KindInstanced, slot, target, err)
			c.realizeLogger().LogRealization(RealizeEvent{
				Kind:     KindInstanced,
				Slot:     slot.String(),
				Target:   target,
				Duration: time.Since(start),
				Err:      err,
			})
			if err != nil {
				return nil, err
			}
			return value, nil
		})

	case KindComputed:
		expression, _ := entry.Value.(string)
		return c.cache.getOrCompute(c.store.generation, slot, func() (any, error) {
			start := time.Now()
			value, err := c.evaluateLocked(slot, expression)
			c.realizeLogger().LogRealization(RealizeEvent{
				Kind:     KindComputed,
				Slot:     slot.String(),
				Target:   expression,
				Duration: time.Since(start),
				Err:      err,
			})
			if err != nil {
				return nil, err
			}
			return value, nil
		})

	default:
		return nil, fmt.Errorf("tonic: unknown entry kind %d for %s", entry.Kind, slot)
	}
}

// paramsForLocked collects the literal entries visible to namespace, exact
// entries shadowing wildcard ones. Instanced and computed entries are skipped
// so expression environments cannot recurse.
func (c *Config) paramsForLocked(namespace string) map[string]any {
	params := make(map[string]any)
	for key, entry := range c.store.entries {
		if entry.Kind != KindLiteral || key.Namespace != Wildcard {
			continue
		}
		params[key.Param] = entry.Value
	}
	for key, entry := range c.store.entries {
		if entry.Kind != KindLiteral || key.Namespace != namespace {
			continue
		}
		params[key.Param] = entry.Value
	}
	return params
}
