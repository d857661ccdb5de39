// Package models defines domain entities and data transfer objects for the Mixify playlist publisher.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external catalog data
//   - [Track] : Song metadata from the catalog service, including the URI used for playlist writes
//   - [ArtistResult] : Artist search result metadata
//   - [RemotePlaylist] : A playlist shell created on the catalog service
//   - [PlaylistDetail] : A remote playlist with its complete track listing
//   - [Profile] : The authenticated catalog user's id and display name
//
// 2. Persistent Entities: Database-backed mirror records
//   - [Artist] : Deduplicated artist rows, unique by name
//   - [Song] : Deduplicated song rows, unique by (title, artist id)
//   - [Playlist] : The mirror record of a published playlist
//   - [PlaylistSong] : Ordered playlist membership with 1-based positions
//
// Mirror entities are created once by the publish workflow and never updated
// or deleted afterwards. All durations are integer milliseconds; display
// formatting happens at the edges.
package models
