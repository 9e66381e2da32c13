package storage

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"visual-search/internal/domain/port"
)

// ErrReferenceRevoked: ссылка не выпускалась или уже отозвана.
var ErrReferenceRevoked = errors.New("display reference revoked")

type displayBlob struct {
	data        []byte
	contentType string
}

// MemoryDisplayStore держит байты изображений за отзываемыми ссылками.
type MemoryDisplayStore struct {
	mu    sync.RWMutex
	blobs map[string]displayBlob
}

// NewMemoryDisplayStore создаёт пустое хранилище ссылок
func NewMemoryDisplayStore() *MemoryDisplayStore {
	return &MemoryDisplayStore{blobs: make(map[string]displayBlob)}
}

// Mint создаёт новую ссылку на данные
func (s *MemoryDisplayStore) Mint(data []byte, contentType string) string {
	ref := uuid.NewString()

	s.mu.Lock()
	s.blobs[ref] = displayBlob{data: data, contentType: contentType}
	s.mu.Unlock()

	return ref
}

// Revoke отзывает ссылку
func (s *MemoryDisplayStore) Revoke(ref string) {
	s.mu.Lock()
	delete(s.blobs, ref)
	s.mu.Unlock()
}

// Open возвращает данные по живой ссылке
func (s *MemoryDisplayStore) Open(ref string) ([]byte, string, error) {
	s.mu.RLock()
	blob, ok := s.blobs[ref]
	s.mu.RUnlock()

	if !ok {
		return nil, "", ErrReferenceRevoked
	}
	return blob.data, blob.contentType, nil
}

// Live возвращает число живых ссылок
func (s *MemoryDisplayStore) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

var _ port.DisplayStore = (*MemoryDisplayStore)(nil)
