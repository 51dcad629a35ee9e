package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"colophon/internal/services"
)

// Get fetches a single record by id. Returns nil when the record is absent.
func (s *Store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if err := s.ensureLoaded(ctx, collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.cache[collection][id]
	if !ok {
		return nil, nil
	}
	return cloneDoc(doc), nil
}

// All returns every record in a collection keyed by id.
func (s *Store) All(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	if err := s.ensureLoaded(ctx, collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.cache[collection]))
	for id, doc := range s.cache[collection] {
		out[id] = cloneDoc(doc)
	}
	return out, nil
}

// Add inserts a new record and returns its generated id.
func (s *Store) Add(ctx context.Context, collection string, doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	if err := s.ensureLoaded(ctx, collection); err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO records (collection, id, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		s.collection(collection), id, string(raw), now, now,
	); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	s.mu.Lock()
	s.cache[collection][id] = cloneDoc(raw)
	s.mu.Unlock()
	return id, nil
}

// Put replaces an existing record. Fails with a not-found error when the id
// is unknown.
func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := s.ensureLoaded(ctx, collection); err != nil {
		return err
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE records SET doc = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(raw), time.Now().UTC().Format(time.RFC3339Nano), s.collection(collection), id,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", collection, fmt.Sprintf("no record %q", id), nil)
	}

	s.mu.Lock()
	s.cache[collection][id] = cloneDoc(raw)
	s.mu.Unlock()
	return nil
}

// Patch merges top-level fields into an existing record.
func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if current == nil {
		return services.Wrap(services.ErrNotFound, "store", collection, fmt.Sprintf("no record %q", id), nil)
	}

	var doc map[string]any
	if err := json.Unmarshal(current, &doc); err != nil {
		return fmt.Errorf("decode record %q: %w", id, err)
	}
	for key, value := range fields {
		doc[key] = value
	}
	return s.Put(ctx, collection, id, doc)
}

// SetField updates one top-level field of an existing record.
func (s *Store) SetField(ctx context.Context, collection, id, field string, value any) error {
	return s.Patch(ctx, collection, id, map[string]any{field: value})
}

// Delete removes a record. Reports whether a record was deleted.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := s.ensureLoaded(ctx, collection); err != nil {
		return false, err
	}
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`,
		s.collection(collection), id,
	)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	s.mu.Lock()
	delete(s.cache[collection], id)
	s.mu.Unlock()
	return true, nil
}

// FindByField returns the records whose top-level field equals value.
func (s *Store) FindByField(ctx context.Context, collection, field, value string) (map[string]json.RawMessage, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, doc FROM records WHERE collection = ? AND json_extract(doc, ?) = ? ORDER BY created_at`,
		s.collection(collection), "$."+field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("query by field: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out[id] = json.RawMessage(doc)
	}
	return out, rows.Err()
}

// ensureLoaded lazily fills the cache for a collection.
func (s *Store) ensureLoaded(ctx context.Context, collection string) error {
	s.mu.RLock()
	loaded := s.loaded[collection]
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, doc FROM records WHERE collection = ?`,
		s.collection(collection),
	)
	if err != nil {
		return fmt.Errorf("load collection %q: %w", collection, err)
	}
	defer rows.Close()

	docs := make(map[string]json.RawMessage)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return fmt.Errorf("scan record: %w", err)
		}
		docs[id] = json.RawMessage(doc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.loaded[collection] {
		s.cache[collection] = docs
		s.loaded[collection] = true
	}
	s.mu.Unlock()
	return nil
}

func cloneDoc(doc json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out
}
