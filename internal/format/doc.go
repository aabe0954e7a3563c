// Package format provides the formatting collaborators used by the sync
// pipeline: per-file option resolution ([Builder]), a built-in formatter
// ([Engine]) for Go, JSON, YAML, TOML and plain text, and a formatter that
// delegates to an external command ([Command]).
//
// Formatters report rejected input as a [*FormatError].
package format
