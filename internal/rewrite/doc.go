// Package rewrite adapts a host build tool's configuration so that it reads
// from the shadow tree: entry points and aliases are translated into the
// cache directory and the watcher is told to ignore the source tree.
package rewrite
