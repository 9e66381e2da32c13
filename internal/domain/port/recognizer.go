package port

import (
	"context"

	"visual-search/internal/domain/entity"
)

// Recognizer интерфейс удалённого сервиса распознавания одежды
type Recognizer interface {
	// Detect загружает изображение и возвращает найденные предметы.
	// Любая сетевая ошибка, не-2xx или битый JSON возвращаются как error.
	Detect(ctx context.Context, image entity.Image) (*entity.DetectionResult, error)

	// Similar возвращает id товаров, похожих на найденный предмет
	Similar(ctx context.Context, itemID string) ([]string, error)
}
