package tonic

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedKey indicates an override key that violates the grammar.
	// Mutations reject the whole batch when any key is malformed.
	ErrMalformedKey = errors.New("tonic: malformed override key")

	// ErrRegistrationConflict indicates a unit claimed a namespace that is
	// already owned while strict mode is enabled.
	ErrRegistrationConflict = errors.New("tonic: namespace already registered")

	// ErrInstancedTargetMissing indicates an instanced entry references a
	// namespace with no invocable unit at resolution time.
	ErrInstancedTargetMissing = errors.New("tonic: instanced target not invocable")
)

// RealizeError captures the slot and target involved in a failed instanced or
// computed realization alongside the originating error.
type RealizeError struct {
	Kind      Kind
	Namespace string
	Param     string
	Target    string // target namespace or expression text
	Err       error
}

func (e *RealizeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tonic: %s value for %s.%s (%s): %v", e.Kind, e.Namespace, e.Param, e.Target, e.Err)
}

func (e *RealizeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapRealizeError(kind Kind, slot Key, target string, err error) error {
	if err == nil {
		return nil
	}
	var realizeErr *RealizeError
	if errors.As(err, &realizeErr) {
		return err
	}
	return &RealizeError{
		Kind:      kind,
		Namespace: slot.Namespace,
		Param:     slot.Param,
		Target:    target,
		Err:       err,
	}
}
