package store

import (
	"context"
	"sync"
)

// Memory — хранилище записей в памяти процесса. Используется в тестах и
// как запасной вариант, когда не настроены ни файл, ни база данных.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string][]byte),
	}
}

// Read возвращает снимок слота. Для ни разу не записанного слота ok=false.
func (m *Memory) Read(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[name]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Write заменяет содержимое слота.
func (m *Memory) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[name] = stored
	return nil
}

// Close освобождает ресурсы хранилища.
func (m *Memory) Close() error {
	return nil
}
