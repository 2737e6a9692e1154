package tonic

// ProgramCache stores compiled expression programs keyed by expression text.
// It is shared across the evaluator backends.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
