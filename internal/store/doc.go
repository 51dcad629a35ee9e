// Package store persists journal records in SQLite behind a generic cached
// collection interface.
//
// Records are schemaless JSON documents keyed by (collection, id). Each
// collection is loaded into memory on first touch and kept current by
// write-through updates, so the common read path never hits the database.
// FindByField queries SQLite's json_extract directly and therefore also sees
// writes made by other processes sharing the database file.
//
// Collection names are prefixed with the configured journal code, letting
// several journals share one database. Typed facades (people, texts,
// manuscripts) layer domain structs over the raw documents; workflow code
// never accesses the database directly.
package store
