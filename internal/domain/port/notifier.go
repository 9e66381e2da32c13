package port

import (
	"context"

	"visual-search/internal/domain/entity"
)

// Notifier показывает пользователю временные уведомления
type Notifier interface {
	Add(ctx context.Context, notice entity.Notice)

	// Remove снимает все уведомления указанного типа
	Remove(ctx context.Context, noticeType entity.NoticeType)
}

// Navigator выполняет переход на страницу витрины
type Navigator interface {
	Go(ctx context.Context, route entity.Route) error
}
