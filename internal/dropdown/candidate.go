package dropdown

import (
	"fmt"
	"reflect"
	"strings"
)

// Strategy identifies the matcher that produced a candidate and renders its
// values into list rows. Strategies are compared by pointer identity.
type Strategy struct {
	ID string
	// IDProperty names the value property used for duplicate detection. When
	// empty, values are compared directly.
	IDProperty string
	// Template renders a value matched by term into a row. A nil Template
	// prints the value with fmt.
	Template func(value any, term string) string
}

func (s *Strategy) render(value any, term string) string {
	if s == nil || s.Template == nil {
		return fmt.Sprint(value)
	}
	return s.Template(value, term)
}

// Candidate pairs a suggestion value with the strategy that produced it and the
// input fragment it matched.
type Candidate struct {
	Value    any
	Strategy *Strategy
	Term     string
}

// includes reports whether buf already holds an entry equal to c. Entries are
// only equal when they share a strategy.
func includes(buf []Candidate, c Candidate) bool {
	var idProperty string
	if c.Strategy != nil {
		idProperty = c.Strategy.IDProperty
	}
	for _, elem := range buf {
		if elem.Strategy != c.Strategy {
			continue
		}
		if idProperty != "" {
			a, _ := property(elem.Value, idProperty)
			b, _ := property(c.Value, idProperty)
			if sameValue(a, b) {
				return true
			}
			continue
		}
		if sameValue(elem.Value, c.Value) {
			return true
		}
	}
	return false
}

// property looks up name on a map with string keys, or on a struct (or pointer
// to struct) by field name or json tag. A missing property yields nil, so two
// values that both lack it compare equal.
func property(v any, name string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		rt := rv.Type()
		if sf, ok := rt.FieldByName(name); ok && sf.IsExported() {
			return fieldValue(rv, sf)
		}
		for _, sf := range reflect.VisibleFields(rt) {
			if !sf.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if tag == name {
				return fieldValue(rv, sf)
			}
		}
	}
	return nil, false
}

// fieldValue reads a possibly promoted field. A nil embedded pointer on the
// path means the property is missing.
func fieldValue(rv reflect.Value, sf reflect.StructField) (any, bool) {
	f, err := rv.FieldByIndexErr(sf.Index)
	if err != nil || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// sameValue is strict equality: == for comparable dynamic types, reference
// identity for maps, slices and funcs.
func sameValue(a, b any) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		// Structs holding interface fields can still panic on ==.
		defer func() {
			if recover() != nil {
				equal = false
			}
		}()
		return a == b
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	return false
}
