package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File — хранилище записей в одном JSON-файле вида {"слот": [...]}.
// Аналог localStorage: каждый Write переписывает файл целиком.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile создаёт файловое хранилище по указанному пути.
// Отсутствующий файл эквивалентен пустому хранилищу.
func NewFile(path string) *File {
	return &File{path: path}
}

// Read возвращает снимок слота из файла.
func (f *File) Read(_ context.Context, name string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.load()
	if err != nil {
		return nil, false, err
	}

	data, ok := slots[name]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

// Write заменяет содержимое слота и переписывает файл.
func (f *File) Write(_ context.Context, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.load()
	if err != nil {
		return err
	}

	stored := make(json.RawMessage, len(data))
	copy(stored, data)
	slots[name] = stored

	out, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("marshal slots: %w", err)
	}

	// Запись через временный файл с переименованием, чтобы сбой не оставил
	// наполовину записанный документ.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}

	return nil
}

// Close освобождает ресурсы хранилища.
func (f *File) Close() error {
	return nil
}

func (f *File) load() (map[string]json.RawMessage, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if dir := filepath.Dir(f.path); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return nil, fmt.Errorf("create storage dir: %w", err)
				}
			}
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	if len(content) == 0 {
		return make(map[string]json.RawMessage), nil
	}

	var slots map[string]json.RawMessage
	if err := json.Unmarshal(content, &slots); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	if slots == nil {
		slots = make(map[string]json.RawMessage)
	}
	return slots, nil
}
