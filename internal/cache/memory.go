package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process Store for local development and tests. Entries
// expire lazily on access.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]memoryEntry
	flats map[string]flatEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type flatEntry struct {
	fields    map[string][]byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		blobs: make(map[string]memoryEntry),
		flats: make(map[string]flatEntry),
	}
}

func expired(at time.Time) bool {
	return !at.IsZero() && time.Now().After(at)
}

func deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// Set stores value as one JSON document under key
func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = memoryEntry{data: data, expiresAt: deadline(ttl)}
	delete(m.flats, key)
	return nil
}

// Get loads a blob value into dest; the second return is false on miss
func (m *Memory) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	e, ok := m.blobs[key]
	m.mu.RUnlock()
	if !ok || expired(e.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("decoding cache value for %q: %w", key, err)
	}
	return true, nil
}

// SetFlat stores doc as independently encoded dot-path fields
func (m *Memory) SetFlat(ctx context.Context, key string, doc map[string]any, ttl time.Duration) error {
	flat := Flatten(doc)
	fields := make(map[string][]byte, len(flat))
	for path, leaf := range flat {
		data, err := json.Marshal(leaf)
		if err != nil {
			return fmt.Errorf("encoding cache field %q: %w", path, err)
		}
		fields[path] = data
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flats[key] = flatEntry{fields: fields, expiresAt: deadline(ttl)}
	delete(m.blobs, key)
	return nil
}

// GetFlat rebuilds the nested document stored under key
func (m *Memory) GetFlat(ctx context.Context, key string) (map[string]any, bool, error) {
	m.mu.RLock()
	e, ok := m.flats[key]
	m.mu.RUnlock()
	if !ok || expired(e.expiresAt) || len(e.fields) == 0 {
		return nil, false, nil
	}
	flat := make(map[string]any, len(e.fields))
	for path, raw := range e.fields {
		var leaf any
		if err := json.Unmarshal(raw, &leaf); err != nil {
			return nil, false, fmt.Errorf("decoding cache field %q of %q: %w", path, key, err)
		}
		flat[path] = leaf
	}
	return Unflatten(flat), true, nil
}

// Delete removes key from both namespaces
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	delete(m.flats, key)
	return nil
}

// Exists reports whether key holds a live entry
func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.blobs[key]; ok && !expired(e.expiresAt) {
		return true, nil
	}
	if e, ok := m.flats[key]; ok && !expired(e.expiresAt) {
		return true, nil
	}
	return false, nil
}

// Ping always succeeds for the in-memory store
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}
