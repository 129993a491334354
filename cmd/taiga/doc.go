// Package main hosts the taiga CLI entrypoint and command graph.
//
// The Cobra-based command tree loads season data into the local library,
// reviews and prints season lists, watches the season directory for new
// data, and scaffolds configuration. It centralizes configuration resolution,
// logging setup, and the library lock so subcommands can focus on output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
