package app

import (
	"fmt"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// PageMeta: метаданные страницы поиска для текущего состояния.
type PageMeta struct {
	Title       string            `json:"title"`
	Scope       entity.FacetScope `json:"scope"`
	ShowOverlay bool              `json:"showOverlay"`
}

// SearchPage: точка принятия решений универсальной страницы поиска.
// Поведение для особых запросов задаётся подключаемым классификатором.
type SearchPage struct {
	classifier port.QueryClassifier
}

// NewSearchPage создаёт страницу поиска. Без классификатора используется обычное поведение.
func NewSearchPage(classifier port.QueryClassifier) *SearchPage {
	if classifier == nil {
		classifier = PlainQueryClassifier{}
	}
	return &SearchPage{classifier: classifier}
}

// Title строит заголовок вида "123 results for <query>".
func (p *SearchPage) Title(count int, query string) string {
	return fmt.Sprintf("%d results for %s", count, p.classifier.TitleQuery(query))
}

// FilterScope вызывается при каждом изменении состояния страницы.
func (p *SearchPage) FilterScope(page entity.PageContext, facetQuery string) entity.FacetScope {
	return p.classifier.FilterScope(page, facetQuery)
}

// Meta собирает заголовок, решение по фасетам и признак показа рамок.
// Рамки показываются только на маршруте визуального поиска.
func (p *SearchPage) Meta(page entity.PageContext, count int, facetQuery string) PageMeta {
	return PageMeta{
		Title:       p.Title(count, page.Query),
		Scope:       p.FilterScope(page, facetQuery),
		ShowOverlay: entity.IsVisualQuery(page.Query),
	}
}
