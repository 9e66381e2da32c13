package app

import (
	"context"
	"log"

	"visual-search/internal/domain/port"
)

// SimilarityService ищет товары, похожие на найденный предмет.
// Ошибки сервиса трактуются как "похожих товаров нет".
type SimilarityService struct {
	recognizer port.Recognizer
	cache      port.SimilarityCache
}

// NewSimilarityService создаёт сервис. cache может быть nil.
func NewSimilarityService(recognizer port.Recognizer, cache port.SimilarityCache) *SimilarityService {
	return &SimilarityService{recognizer: recognizer, cache: cache}
}

// Similar возвращает id похожих товаров, при ошибке пустой список.
func (s *SimilarityService) Similar(ctx context.Context, itemID string) []string {
	if itemID == "" || s.recognizer == nil {
		return nil
	}

	if s.cache != nil {
		ids, ok, err := s.cache.Get(ctx, itemID)
		if err != nil {
			log.Printf("similarity cache get %q: %v", itemID, err)
		}
		if ok {
			return ids
		}
	}

	ids, err := s.recognizer.Similar(ctx, itemID)
	if err != nil {
		log.Printf("similar products for %q: %v", itemID, err)
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, itemID, ids); err != nil {
			log.Printf("similarity cache put %q: %v", itemID, err)
		}
	}

	return ids
}
