package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// LookupFunc returns the value of a variable and whether it is set
type LookupFunc func(name string) (string, bool)

// UnsetError reports a reference to a variable that is not set and has no
// fallback.
type UnsetError struct {
	Name string
}

func (e *UnsetError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// Lookup returns a LookupFunc that checks the process environment and then
// each of the given maps in order.
func Lookup(sources ...map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		for _, src := range sources {
			if v, ok := src[name]; ok {
				return v, true
			}
		}
		return "", false
	}
}

// Expand replaces every ${NAME} and ${NAME:-fallback} in s. Unset
// variables without a fallback produce an *UnsetError.
func Expand(s string, lookup LookupFunc) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var firstErr error
	out := referencePattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := referencePattern.FindStringSubmatch(ref)
		if v, ok := lookup(m[1]); ok && v != "" {
			return v
		}
		if m[2] != "" {
			return m[3]
		}
		if v, ok := lookup(m[1]); ok {
			return v
		}
		if firstErr == nil {
			firstErr = &UnsetError{Name: m[1]}
		}
		return ref
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// ExpandValue expands strings found in v, descending into slices and
// string-keyed maps. Other values are returned unchanged.
func ExpandValue(v any, lookup LookupFunc) (any, error) {
	switch val := v.(type) {
	case string:
		return Expand(val, lookup)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := ExpandValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			expanded, err := ExpandValue(item, lookup)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}
