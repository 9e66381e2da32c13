package port

import (
	"context"

	"visual-search/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий покупателей.
// Get возвращает копию: сессия меняется только через методы хранилища.
type SessionRepository interface {
	// Get возвращает сессию по ключу, создаёт новую если не найдена
	Get(ctx context.Context, key string) (*entity.Session, error)

	// UpdateState обновляет состояние сессии
	UpdateState(ctx context.Context, key string, state entity.SessionState) error

	// UpdateRoute запоминает последний переход сессии
	UpdateRoute(ctx context.Context, key string, route entity.Route) error

	// Delete удаляет сессию
	Delete(ctx context.Context, key string) error
}
