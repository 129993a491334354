// Package watch reports when season data files appear or change on disk.
//
// The directory is watched rather than the file so files that do not yet
// exist, or are replaced by rename, are still seen. Bursts of events for the
// same file collapse into one callback after the debounce interval.
package watch
