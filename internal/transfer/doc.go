// Package transfer downloads season data files in the background.
//
// Dispatcher.Enqueue returns immediately; each request runs on its own
// goroutine, waits on a shared rate limiter, and is collapsed with any
// identical in-flight request. Successful downloads are written atomically
// into the destination directory and announced through the completion hook so
// the owner can reload.
package transfer
