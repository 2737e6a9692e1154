// Package tonic configures "units": callables registered with default-valued
// parameters under dot-delimited namespaces. Overrides bound to textual keys
// (`ns.param`, wildcard `*.param`, instanced `@ns.param`, computed
// `$ns.param`) are resolved against those parameters before each invocation,
// with explicit call-site arguments always winning over configuration.
package tonic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nmichlo/tonic-config/pkg/activity"
)

// Option configures a Config instance during construction.
type Option func(*configOptions)

type configOptions struct {
	strict       bool
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       RealizeLogger
	hooks        activity.Hooks
}

func applyOptions(opts []Option) configOptions {
	cfg := configOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithStrict enforces unique namespace ownership: binding a unit to an
// already registered namespace fails with ErrRegistrationConflict.
func WithStrict() Option {
	return func(cfg *configOptions) {
		cfg.strict = true
	}
}

// WithEvaluator configures the expression engine used for computed overrides.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *configOptions) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a compiled-program cache shared by evaluators.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *configOptions) {
		cfg.programCache = cache
	}
}

// WithFunctionRegistry exposes registry's functions to computed overrides.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *configOptions) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for computed overrides.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *configOptions) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithActivityHooks attaches hooks notified after every successful mutation.
// Nil entries are dropped.
func WithActivityHooks(hooks ...activity.Hook) Option {
	normalized := make(activity.Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	return func(cfg *configOptions) {
		if len(normalized) == 0 {
			cfg.hooks = nil
			return
		}
		cfg.hooks = normalized
	}
}

// Config is one isolated configuration instance: the slot registry, the
// override store with its generation counter, and the realization cache, all
// guarded by a single lock so a resolve observes either the full pre- or full
// post-mutation state.
//
// All operations are synchronous. Unit functions and hooks must not mutate
// the configuration they are invoked from.
type Config struct {
	mu    sync.Mutex
	cfg   configOptions
	reg   *registry
	store *overrideStore
	cache *genCache
}

// New constructs an empty Config. Independent instances share no state.
func New(opts ...Option) *Config {
	return &Config{
		cfg:   applyOptions(opts),
		reg:   newRegistry(),
		store: newOverrideStore(),
		cache: newGenCache(),
	}
}

// Register unions params into the slot set for namespace. Repeated calls
// accumulate; registration never rejects a union. Entries referencing
// namespaces that are not registered yet are retained in the store and
// matched lazily, so registration order does not matter for literals.
func (c *Config) Register(namespace string, params ...string) error {
	if !validNamespace(namespace) {
		return fmt.Errorf("%w: namespace %q", ErrMalformedKey, namespace)
	}
	for _, name := range params {
		if !validParam(name) {
			return fmt.Errorf("%w: parameter %q", ErrMalformedKey, name)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.register(namespace, params)
	return nil
}

// HasNamespace reports whether any unit registered namespace.
func (c *Config) HasNamespace(namespace string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.hasNamespace(namespace)
}

// Slots returns the parameter names registered under namespace, sorted.
func (c *Config) Slots(namespace string) []string {
	c.mu.Lock()
	set := c.reg.slotsFor(namespace)
	c.mu.Unlock()
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Set establishes overrides as a fresh complete baseline, discarding the
// previous state.
func (c *Config) Set(overrides map[string]any) error {
	return c.mutate(activity.VerbSet, overrides, true)
}

// Update overlays overrides onto the current state; incoming keys win.
func (c *Config) Update(overrides map[string]any) error {
	return c.mutate(activity.VerbUpdate, overrides, false)
}

// Reset discards all current entries and installs overrides as the complete
// new state. Reset(nil) clears every override.
func (c *Config) Reset(overrides map[string]any) error {
	return c.mutate(activity.VerbReset, overrides, true)
}

// mutate applies one batch atomically: a malformed key rejects the whole
// batch before anything is touched, leaving the generation unchanged. Hooks
// run after the lock is released; a hook error is returned but the mutation
// remains applied.
func (c *Config) mutate(verb string, overrides map[string]any, replace bool) error {
	parsed := make(map[Key]Entry, len(overrides))
	keys := make([]string, 0, len(overrides))
	for text, value := range overrides {
		key, entry, err := parseOverride(text, value)
		if err != nil {
			return err
		}
		parsed[key] = entry
		keys = append(keys, text)
	}

	c.mu.Lock()
	if replace {
		c.store.reset(parsed)
	} else {
		c.store.update(parsed)
	}
	generation := c.store.generation
	hooks := c.cfg.hooks
	c.mu.Unlock()

	if !hooks.Enabled() {
		return nil
	}
	return hooks.Notify(context.Background(), activity.Event{
		Verb:       verb,
		Generation: generation,
		Keys:       keys,
	})
}

// Generation returns the store's monotonic version counter. It starts at
// zero and every mutation bumps it.
func (c *Config) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.generation
}

// Raw returns the stored entry for a textual key, ignoring any leading kind
// marker, without realizing instanced or computed values.
func (c *Config) Raw(text string) (Entry, bool, error) {
	body := strings.TrimPrefix(strings.TrimPrefix(text, instancedMarker), computedMarker)
	key, err := ParseKey(body)
	if err != nil {
		return Entry{}, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.store.get(key)
	return entry, ok, nil
}

// SnapshotEntry is one override in textual form; Key carries the kind marker
// so parsing a snapshot back reproduces the entry exactly.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Kind  Kind   `json:"-"`
	Value any    `json:"value"`
}

// Snapshot is a point-in-time copy of the override store, ordered by
// namespace then parameter. ID is a fresh UUID identifying this capture.
type Snapshot struct {
	ID         string          `json:"id"`
	Generation uint64          `json:"generation"`
	Entries    []SnapshotEntry `json:"entries"`
}

// Overrides flattens the snapshot back into the mapping shape accepted by
// Set, Update, and Reset.
func (s Snapshot) Overrides() map[string]any {
	out := make(map[string]any, len(s.Entries))
	for _, entry := range s.Entries {
		out[entry.Key] = entry.Value
	}
	return out
}

// Snapshot captures the current store state for persistence adapters.
func (c *Config) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.store.sortedKeys()
	entries := make([]SnapshotEntry, 0, len(keys))
	for _, key := range keys {
		entry, _ := c.store.get(key)
		entries = append(entries, SnapshotEntry{
			Key:   formatOverride(key, entry.Kind),
			Kind:  entry.Kind,
			Value: entry.Value,
		})
	}
	return Snapshot{
		ID:         uuid.NewString(),
		Generation: c.store.generation,
		Entries:    entries,
	}
}

func (c *Config) realizeLogger() RealizeLogger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}
	return noopRealizeLogger{}
}
