// Package preflight provides readiness checks for the paths and remote
// season source taiga depends on.
//
// The CLI "taiga status" command runs RunAll and prints each result; the
// remote check is skipped when downloads are disabled.
package preflight
