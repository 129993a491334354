// Package discover maintains the current season view of the anime library.
//
// A SeasonDatabase ingests season data files, correlates every listed title
// with a library record through any of its external service identifiers, and
// keeps an ordered list of the records that belong to the current season.
//
// Loading follows Idle -> Loading(local) -> {Success, Downloading, ParseFailure}:
//
//   - the season file is read from the local season directory;
//   - a missing file enqueues a download and returns ErrNotReady, and the
//     download's completion is expected to trigger another load;
//   - a malformed file returns a *ParseError and is not retried;
//   - otherwise each entry is resolved (first matching identifier wins) and
//     reconciled against its record, newer season data overwriting stale
//     records, and the resulting identifiers become the season list.
//
// Review re-applies the season interval and content policy to an existing
// list: tracked records with unknown start dates are kept, while untracked
// records need a known start date inside the interval to be added.
//
// The library store, document source, download dispatcher, service registry,
// and notifier are injected so tests can substitute in-memory fakes.
package discover
