package serialization

import "maps"

// AttachedData is auxiliary project content outside the canonical schema.
//
// It is rebuilt on every decode and is only written back when the caller
// passes it to [SerializeProject] again. Keys are free-form; values are
// anything YAML can represent (strings, numbers, booleans, lists, maps).
type AttachedData map[string]any

// Clone returns a deep copy of a. Nested maps and lists are copied; scalar
// values are shared.
func (a AttachedData) Clone() AttachedData {
	if a == nil {
		return nil
	}
	out := make(AttachedData, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := maps.Clone(t)
		for k, inner := range m {
			m[k] = cloneValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// attachedOrNil collapses an empty mapping to nil so that "no attached data"
// has a single representation after decode.
func attachedOrNil(m map[string]any) AttachedData {
	if len(m) == 0 {
		return nil
	}
	return AttachedData(m)
}
