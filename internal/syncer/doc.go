// Package syncer formats files in the source tree and mirrors them into the
// shadow tree.
//
// [Pipeline.Run] handles one file: read, resolve options, format, write back
// in place, and copy to the translated destination. [Populator] enumerates
// the starting file set and [Pipeline.Sync] drives the pipeline over it.
package syncer
