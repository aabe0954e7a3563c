// Package shadowpath maps paths between the source tree and its shadow
// (cache) tree, and validates that the two trees can coexist safely.
package shadowpath
