package store

import (
	"bytes"
	"context"
	"sync"
)

type MemoryKV struct {
	mtx   sync.Mutex
	slots map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mtx.Lock()
	m.slots[key] = bytes.Clone(value)
	m.mtx.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mtx.Lock()
	delete(m.slots, key)
	m.mtx.Unlock()
	return nil
}

func (m *MemoryKV) Close() error { return nil }
