// Package maputil walks and copies the loosely typed nested structures that
// build-tool configuration decodes into: map[string]any, []any and their
// string-only variants.
package maputil
