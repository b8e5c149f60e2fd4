package store

import (
	"context"
	"sync"

	"document-qa/internal/models"
)

// Memory is an insertion-ordered in-memory backend. Scan order is the order
// records were first put, which makes similarity ties deterministic.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	records map[string]models.Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]models.Record)}
}

func (m *Memory) Put(_ context.Context, rec models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		m.order = append(m.order, rec.ID)
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return nil
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Scan(_ context.Context) ([]models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out, nil
}
