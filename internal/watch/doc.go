// Package watch keeps the shadow tree up to date while the host build tool
// runs in watch mode. A [Source] turns fsnotify notifications into ordered
// batches of [FileEvent]s, and a [Dispatcher] re-synchronizes the affected
// files, coalescing duplicate notifications for the same path.
package watch
