// Package storage is the persistence port for client-held state: a small
// JSON key-value surface, swappable for anything that can hold a blob per key.
package storage

// Store loads and saves JSON-serialized values under fixed keys.
type Store interface {
	// Get decodes the value under key into v. Returns false when the key
	// has never been written.
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}
