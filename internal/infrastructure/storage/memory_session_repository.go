package storage

import (
	"context"
	"sync"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий.
// Наружу отдаются только копии, поэтому читать их можно без блокировок.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// Get возвращает сессию по ключу, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, key string) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[key]
	if exists {
		session = session.Clone()
	}
	r.mu.RUnlock()

	if exists {
		return session, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lookup(key).Clone(), nil
}

// UpdateState обновляет состояние сессии
func (r *MemorySessionRepository) UpdateState(ctx context.Context, key string, state entity.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookup(key).SetState(state)
	return nil
}

// UpdateRoute запоминает последний переход сессии
func (r *MemorySessionRepository) UpdateRoute(ctx context.Context, key string, route entity.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookup(key).Route = &route
	return nil
}

// Delete удаляет сессию
func (r *MemorySessionRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.sessions, key)
	r.mu.Unlock()

	return nil
}

// lookup вызывается под r.mu на запись.
func (r *MemorySessionRepository) lookup(key string) *entity.Session {
	session, exists := r.sessions[key]
	if !exists {
		session = entity.NewSession(key)
		r.sessions[key] = session
	}
	return session
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
