package tonic

// genCache memoizes realized instanced and computed values per slot within a
// single store generation. It mirrors the store's generation counter: on the
// first lookup after a mutation the whole cache is discarded, so a value is
// never reused across generations.
type genCache struct {
	generation uint64
	values     map[Key]any
}

func newGenCache() *genCache {
	return &genCache{values: make(map[Key]any)}
}

// getOrCompute returns the cached value for slot at generation, computing and
// storing it on a miss. Nothing is cached when compute fails, so the next
// resolve within the same generation retries.
func (g *genCache) getOrCompute(generation uint64, slot Key, compute func() (any, error)) (any, error) {
	if g.generation != generation {
		g.values = make(map[Key]any)
		g.generation = generation
	}
	if value, ok := g.values[slot]; ok {
		return value, nil
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	g.values[slot] = value
	return value, nil
}
