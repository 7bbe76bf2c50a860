package planner

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ── Mock KVStore ──

type mockKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	saves    map[string]int
	failSave bool
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string][]byte), saves: make(map[string]int)}
}

func (m *mockKV) Save(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("磁盘已满")
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.saves[key]++
	return nil
}

func (m *mockKV) Load(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return true, err
	}
	return true, nil
}

func (m *mockKV) put(key, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(raw)
}

func (m *mockKV) saveCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[key]
}
