package app

import (
	"strings"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// PlainQueryClassifier: обычное поведение страницы поиска.
type PlainQueryClassifier struct{}

func (PlainQueryClassifier) TitleQuery(query string) string {
	return query
}

// FilterScope сужает выдачу фасетом, только если текущая фасетная выдача
// построена от этого же запроса ("<query>:...").
func (PlainQueryClassifier) FilterScope(page entity.PageContext, facetQuery string) entity.FacetScope {
	if !page.IsSearchPage() {
		return entity.ScopeNone
	}
	if strings.HasPrefix(facetQuery, page.Query+":") {
		return entity.ScopeCategory
	}
	return entity.ScopeNone
}

// VisualQueryClassifier распознаёт запросы вида "visual-<id>".
// Для остальных запросов ведёт себя как PlainQueryClassifier.
type VisualQueryClassifier struct {
	plain PlainQueryClassifier
}

// TitleQuery не показывает пользователю непрозрачный id предмета.
func (c VisualQueryClassifier) TitleQuery(query string) string {
	if entity.IsVisualQuery(query) {
		return entity.VisualSearchTitle
	}
	return c.plain.TitleQuery(query)
}

// FilterScope не сужает выдачу визуального поиска на странице поиска.
func (c VisualQueryClassifier) FilterScope(page entity.PageContext, facetQuery string) entity.FacetScope {
	if page.IsSearchPage() && entity.IsVisualQuery(page.Query) {
		return entity.ScopeVisual
	}
	return c.plain.FilterScope(page, facetQuery)
}

var (
	_ port.QueryClassifier = PlainQueryClassifier{}
	_ port.QueryClassifier = VisualQueryClassifier{}
)
