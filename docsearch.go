// Package docsearch provides incremental symbol search over the sharded
// search tables that documentation generators emit for client-side search.
// Shards are loaded lazily by first character, matched by substring, and
// rendered only for the most recent query.
//
// This package contains domain types, interfaces, and the pure routing and
// matching functions, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, http/, minio/, doxygen/).
package docsearch
