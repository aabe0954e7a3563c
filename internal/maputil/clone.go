package maputil

// Clone returns a deep copy of a decoded configuration value. Containers are
// duplicated; scalars are shared. Clone recurses, so it must not be given a
// cyclic value; decoded JSON and YAML never are.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return val
		}

		dst := make(map[string]any, len(val))
		for k, item := range val {
			dst[k] = Clone(item)
		}

		return dst
	case []any:
		if val == nil {
			return val
		}

		dst := make([]any, len(val))
		for i, item := range val {
			dst[i] = Clone(item)
		}

		return dst
	case map[string]string:
		if val == nil {
			return val
		}

		dst := make(map[string]string, len(val))
		for k, s := range val {
			dst[k] = s
		}

		return dst
	case []string:
		if val == nil {
			return val
		}

		return append([]string(nil), val...)
	default:
		return v
	}
}

// CloneMap deep-copies a map[string]any.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	return Clone(src).(map[string]any)
}
