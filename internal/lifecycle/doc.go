// Package lifecycle owns the shadow tree's lifetime: it purges the tree on
// startup, guarantees a second purge when the process ends, and keeps two
// processes from sharing one shadow tree.
package lifecycle
