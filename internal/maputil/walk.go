package maputil

import "reflect"

// MapStrings replaces every string leaf reachable from v with fn(leaf) and
// returns v. Containers are rewritten in place and keep their shape. The walk
// uses an explicit stack and visits each container once, so deep or cyclic
// structures terminate.
//
// A bare string argument cannot be updated in place; its mapped value is
// returned instead.
func MapStrings(v any, fn func(string) string) any {
	if s, ok := v.(string); ok {
		return fn(s)
	}

	stack := []any{v}
	seen := make(map[containerID]struct{})

	for len(stack) > 0 {
		top := len(stack) - 1
		current := stack[top]
		stack = stack[:top]

		id, ok := identify(current)
		if !ok {
			continue
		}

		if _, visited := seen[id]; visited {
			continue
		}

		seen[id] = struct{}{}

		switch c := current.(type) {
		case map[string]any:
			for k, val := range c {
				if s, isString := val.(string); isString {
					c[k] = fn(s)
					continue
				}

				stack = append(stack, val)
			}
		case []any:
			for i, val := range c {
				if s, isString := val.(string); isString {
					c[i] = fn(s)
					continue
				}

				stack = append(stack, val)
			}
		case map[string]string:
			for k, s := range c {
				c[k] = fn(s)
			}
		case []string:
			for i, s := range c {
				c[i] = fn(s)
			}
		}
	}

	return v
}

// containerID identifies a map or slice by its backing storage.
type containerID struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

// identify returns the identity of a supported container. Scalars, nil
// containers and empty slices report false; there is nothing to rewrite in
// them.
func identify(v any) (containerID, bool) {
	switch v.(type) {
	case map[string]any, []any, map[string]string, []string:
	default:
		return containerID{}, false
	}

	rv := reflect.ValueOf(v)
	if rv.IsNil() || rv.Len() == 0 {
		return containerID{}, false
	}

	return containerID{kind: rv.Kind(), ptr: rv.Pointer(), len: rv.Len()}, true
}
