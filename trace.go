package tonic

import "encoding/json"

// Trace captures provenance for one slot lookup: every candidate entry the
// resolver would consider, in precedence order, with the winner marked.
// Values are raw (instanced and computed entries are not realized), so
// tracing never triggers side effects.
type Trace struct {
	Namespace  string      `json:"namespace"`
	Param      string      `json:"param"`
	Generation uint64      `json:"generation"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate details one entry considered during resolution.
type Candidate struct {
	Key   string `json:"key"`
	Kind  string `json:"kind,omitempty"`
	Value any    `json:"value,omitempty"`
	Found bool   `json:"found"`
	Won   bool   `json:"won"`
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Explain reports how a resolve without an explicit argument would pick a
// value for the slot, without realizing anything.
func (c *Config) Explain(namespace, param string) Trace {
	c.mu.Lock()
	defer c.mu.Unlock()

	exact := Key{Namespace: namespace, Param: param}
	wildcard := Key{Namespace: Wildcard, Param: param}

	trace := Trace{
		Namespace:  namespace,
		Param:      param,
		Generation: c.store.generation,
	}
	won := false
	for _, key := range []Key{exact, wildcard} {
		entry, found := c.store.get(key)
		candidate := Candidate{
			Key:   formatOverride(key, entry.Kind),
			Found: found,
		}
		if found {
			candidate.Kind = entry.Kind.String()
			candidate.Value = entry.Value
			if !won {
				candidate.Won = true
				won = true
			}
		}
		trace.Candidates = append(trace.Candidates, candidate)
	}
	return trace
}
