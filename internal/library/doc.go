// Package library persists anime library records in SQLite.
//
// The Store keeps one row per record in the anime table and the record's
// external service identifiers in anime_ids, so a season data entry can be
// correlated through any of the services it lists. Record identifiers are
// minted by SQLite and only ever grow, which makes identifier order equal to
// insertion order; All relies on that.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package library
