package tonic

import (
	"fmt"
	"sort"
	"strings"
)

// Dump renders every registered slot with its effective configuration as a
// literal mapping. Unconfigured slots are commented out, and slots served by
// a wildcard entry carry a trailing comment naming it. Intended for humans;
// the persistence adapter handles machine round-trips.
func (c *Config) Dump() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	namespaces := make([]string, 0, len(c.reg.slots))
	for namespace := range c.reg.slots {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)

	var sb strings.Builder
	sb.WriteString("{\n")
	for _, namespace := range namespaces {
		params := make([]string, 0, len(c.reg.slots[namespace]))
		for name := range c.reg.slots[namespace] {
			params = append(params, name)
		}
		sort.Strings(params)

		for _, name := range params {
			exact := Key{Namespace: namespace, Param: name}
			entry, found := c.store.get(exact)
			fromWildcard := false
			if !found {
				entry, found = c.store.get(Key{Namespace: Wildcard, Param: name})
				fromWildcard = found
			}

			if !found {
				fmt.Fprintf(&sb, "  # %q:\n", exact.String())
				continue
			}
			fmt.Fprintf(&sb, "  %q: %#v,", formatOverride(exact, entry.Kind), entry.Value)
			if fromWildcard {
				fmt.Fprintf(&sb, "  # from %q", formatOverride(Key{Namespace: Wildcard, Param: name}, entry.Kind))
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
