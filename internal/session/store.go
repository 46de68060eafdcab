package session

import (
	"context"
	"sync"
)

// Claves de la sesión en el almacenamiento local.
const (
	KeyToken = "token"
	KeyID    = "id"
	KeyName  = "name"
	KeyRole  = "role"
)

var sessionKeys = []string{KeyToken, KeyID, KeyName, KeyRole}

// Store es el almacenamiento local clave/valor donde vive la sesión.
// SetAll y Delete deben aplicar todas las claves juntas.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetAll(ctx context.Context, kv map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryStore es un Store en memoria (tests, sesiones efímeras).
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) SetAll(_ context.Context, kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kv {
		m.data[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
