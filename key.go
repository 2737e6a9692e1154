package tonic

import (
	"fmt"
	"regexp"
	"strings"
)

// Wildcard is the reserved namespace that matches any registered namespace.
const Wildcard = "*"

const (
	instancedMarker = "@"
	computedMarker  = "$"
)

// keyPattern accepts `namespace.param` paths. The wildcard may only appear as
// the sole namespace segment, and at least two segments are required so every
// key names both a namespace and a parameter.
var keyPattern = regexp.MustCompile(`^([A-Za-z0-9_]+|\*)(\.[A-Za-z0-9_]+)+$`)

// namespacePattern accepts registrable namespaces: one or more dot-delimited
// identifier segments, no wildcard.
var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// Kind classifies how an override entry's value is interpreted.
type Kind int

const (
	// KindLiteral entries hold an opaque value returned as-is.
	KindLiteral Kind = iota
	// KindInstanced entries hold the name of a registered namespace whose
	// unit is invoked to realize the value.
	KindInstanced
	// KindComputed entries hold an expression evaluated by the configured
	// expression engine.
	KindComputed
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindInstanced:
		return "instanced"
	case KindComputed:
		return "computed"
	default:
		return "unknown"
	}
}

func (k Kind) marker() string {
	switch k {
	case KindInstanced:
		return instancedMarker
	case KindComputed:
		return computedMarker
	default:
		return ""
	}
}

// Key identifies one override slot: a namespace (or the wildcard) paired with
// a parameter name. Entry kind is not part of the identity, so an instanced
// entry replaces a literal entry for the same slot and vice versa.
type Key struct {
	Namespace string
	Param     string
}

// String renders the key in `namespace.param` form without a kind marker.
func (k Key) String() string {
	return k.Namespace + "." + k.Param
}

// IsWildcard reports whether the key targets the reserved wildcard namespace.
func (k Key) IsWildcard() bool {
	return k.Namespace == Wildcard
}

// ParseKey parses a textual key without a kind marker. The last segment is
// the parameter name, everything before it the namespace.
func ParseKey(text string) (Key, error) {
	if !keyPattern.MatchString(text) {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, text)
	}
	dot := strings.LastIndex(text, ".")
	return Key{Namespace: text[:dot], Param: text[dot+1:]}, nil
}

// parseOverride parses one textual override key together with its value,
// honouring the optional leading kind marker. Instanced and computed entries
// require string values (a target namespace and an expression respectively);
// anything else rejects the key as malformed so the surrounding batch can be
// dropped atomically.
func parseOverride(text string, value any) (Key, Entry, error) {
	kind := KindLiteral
	body := text
	switch {
	case strings.HasPrefix(text, instancedMarker):
		kind = KindInstanced
		body = text[len(instancedMarker):]
	case strings.HasPrefix(text, computedMarker):
		kind = KindComputed
		body = text[len(computedMarker):]
	}

	key, err := ParseKey(body)
	if err != nil {
		return Key{}, Entry{}, err
	}

	switch kind {
	case KindInstanced:
		target, ok := value.(string)
		if !ok || !namespacePattern.MatchString(target) {
			return Key{}, Entry{}, fmt.Errorf("%w: %q: instanced value must name a namespace, got %v", ErrMalformedKey, text, value)
		}
	case KindComputed:
		expression, ok := value.(string)
		if !ok || expression == "" {
			return Key{}, Entry{}, fmt.Errorf("%w: %q: computed value must be a non-empty expression", ErrMalformedKey, text)
		}
	}

	return key, Entry{Kind: kind, Value: value}, nil
}

// formatOverride renders the textual form of an entry's key, including the
// kind marker, so that parse and format round-trip exactly.
func formatOverride(key Key, kind Kind) string {
	return kind.marker() + key.String()
}

func validNamespace(namespace string) bool {
	return namespacePattern.MatchString(namespace)
}

func validParam(name string) bool {
	return namespacePattern.MatchString(name) && !strings.Contains(name, ".")
}
