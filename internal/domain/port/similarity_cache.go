package port

import "context"

// SimilarityCache хранит списки похожих товаров по id предмета
type SimilarityCache interface {
	// Get возвращает ok == false, если записи нет или она устарела
	Get(ctx context.Context, itemID string) (ids []string, ok bool, err error)

	Put(ctx context.Context, itemID string, ids []string) error
}
