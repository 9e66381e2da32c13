package port

import "visual-search/internal/domain/entity"

// QueryClassifier: подключаемая логика страницы поиска, решающая,
// как показывать запрос в заголовке и сужать ли выдачу фасетом.
// Реализации не должны хранить состояние между вызовами.
type QueryClassifier interface {
	// TitleQuery возвращает текст запроса для заголовка страницы
	TitleQuery(query string) string

	// FilterScope решает, сужать ли выдачу. facetQuery это текущий запрос
	// фасетной выдачи, например "shirts:relevance:category:tops".
	FilterScope(page entity.PageContext, facetQuery string) entity.FacetScope
}
