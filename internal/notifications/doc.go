// Package notifications delivers season status and error reports.
//
// NewService publishes to ntfy using the topic configured in config.toml and
// degrades to a no-op when notifications are disabled. Sink pairs a Service
// with a logger and is what the season database reports through; delivery
// failures are logged and never reach the caller.
package notifications
