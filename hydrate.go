package tonic

import (
	"fmt"
	"reflect"
	"strings"
)

// tagName is the struct tag declaring a field configurable, e.g.
// `tonic:"lr"`. Fields tagged "-" or untagged are ignored.
const tagName = "tonic"

// RegisterStruct derives parameter names from prototype's tonic tags and
// registers them under namespace. The prototype may be a struct or a pointer
// to one. In strict mode an already registered namespace fails with
// ErrRegistrationConflict.
func (c *Config) RegisterStruct(namespace string, prototype any) error {
	if !validNamespace(namespace) {
		return fmt.Errorf("%w: namespace %q", ErrMalformedKey, namespace)
	}
	params, err := structParams(prototype)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.strict && c.reg.hasNamespace(namespace) {
		return fmt.Errorf("%w: %s", ErrRegistrationConflict, namespace)
	}
	c.reg.register(namespace, params)
	return nil
}

// Hydrate resolves every tagged field of target against namespace and injects
// the result. Unconfigured fields keep their current value, so struct
// defaults survive. Target must be a non-nil pointer to a struct.
func (c *Config) Hydrate(namespace string, target any) error {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("tonic: hydrate target must be a non-nil struct pointer, got %T", target)
	}
	elem := value.Elem()
	structType := elem.Type()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		name := fieldParam(field)
		if name == "" {
			continue
		}
		res, err := c.resolveLocked(namespace, name, NoArg)
		if err != nil {
			return err
		}
		if !res.Configured() {
			continue
		}
		if err := assignField(elem.Field(i), field, res.Value); err != nil {
			return fmt.Errorf("tonic: hydrate %s.%s: %w", namespace, name, err)
		}
	}
	return nil
}

func structParams(prototype any) ([]string, error) {
	structType := reflect.TypeOf(prototype)
	if structType != nil && structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType == nil || structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tonic: prototype must be a struct, got %T", prototype)
	}
	var params []string
	for i := 0; i < structType.NumField(); i++ {
		name := fieldParam(structType.Field(i))
		if name == "" {
			continue
		}
		if !validParam(name) {
			return nil, fmt.Errorf("%w: parameter %q", ErrMalformedKey, name)
		}
		params = append(params, name)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("tonic: prototype %s declares no tonic-tagged fields", structType)
	}
	return params, nil
}

func fieldParam(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tag := field.Tag.Get(tagName)
	name := strings.Split(tag, ",")[0]
	if name == "" || name == "-" {
		return ""
	}
	return name
}

func assignField(field reflect.Value, meta reflect.StructField, value any) error {
	if !field.CanSet() {
		return fmt.Errorf("field %s is not settable", meta.Name)
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	incoming := reflect.ValueOf(value)
	switch {
	case incoming.Type().AssignableTo(field.Type()):
		field.Set(incoming)
	case incoming.Type().ConvertibleTo(field.Type()):
		field.Set(incoming.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %T to field %s (%s)", value, meta.Name, field.Type())
	}
	return nil
}
