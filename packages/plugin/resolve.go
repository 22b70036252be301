package plugin

import (
	"reflect"
)

// DefaultField is the struct field holding a module's default export
const DefaultField = "Default"

// DefaultKey is the map key holding a module's default export
const DefaultKey = "default"

// Resolve normalizes an imported module value into a function of type T.
// The value itself is used when it is a function convertible to T;
// otherwise its default export is tried. T must be a func type.
func Resolve[T any](exported any) (T, bool) {
	var zero T
	target := reflect.TypeFor[T]()
	if target.Kind() != reflect.Func || exported == nil {
		return zero, false
	}

	rv := reflect.ValueOf(exported)
	if fn, ok := asFunc(rv, target); ok {
		return fn.Interface().(T), true
	}
	if def, ok := defaultExport(rv); ok {
		if fn, ok := asFunc(def, target); ok {
			return fn.Interface().(T), true
		}
	}
	return zero, false
}

func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

func asFunc(rv reflect.Value, target reflect.Type) (reflect.Value, bool) {
	rv, ok := indirect(rv)
	if !ok || rv.Kind() != reflect.Func || rv.IsNil() {
		return reflect.Value{}, false
	}
	if !rv.Type().ConvertibleTo(target) {
		return reflect.Value{}, false
	}
	return rv.Convert(target), true
}

func defaultExport(rv reflect.Value) (reflect.Value, bool) {
	rv, ok := indirect(rv)
	if !ok {
		return reflect.Value{}, false
	}

	switch rv.Kind() {
	case reflect.Struct:
		field, found := rv.Type().FieldByName(DefaultField)
		if !found || !field.IsExported() {
			return reflect.Value{}, false
		}
		v, err := rv.FieldByIndexErr(field.Index)
		return v, err == nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		v := rv.MapIndex(reflect.ValueOf(DefaultKey).Convert(rv.Type().Key()))
		return v, v.IsValid()
	}
	return reflect.Value{}, false
}
