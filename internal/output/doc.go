// Package output provides destinations for rewritten host configurations:
// standard output or a file that is replaced atomically.
package output
