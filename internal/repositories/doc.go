// Package repositories provides the persistence layer for the published
// playlist mirror.
//
// Artists and songs are deduplicated catalog entities: creating one that
// already exists resolves to the existing row via an atomic upsert
// (INSERT ... ON CONFLICT ... RETURNING), so two publishes of the same
// track share one artist row and one song row. Playlists and their
// memberships are immutable records of what was published; nothing in this
// package updates or deletes them.
package repositories
