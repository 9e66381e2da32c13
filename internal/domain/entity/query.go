package entity

import (
	"net/url"
	"strings"
)

const (
	// VisualQueryPrefix помечает запрос, пришедший из визуального поиска.
	VisualQueryPrefix = "visual-"
	// VisualSearchTitle подставляется в заголовок вместо непрозрачного id.
	VisualSearchTitle = "visual-search"
	// VisualRelevanceSort: сортировка, запрашиваемая при переходе.
	VisualRelevanceSort = "visual-relevance"
	// SearchRoute: имя маршрута страницы поиска.
	SearchRoute = "search"
)

// EncodeVisualQuery кодирует id предмета в строку поиска.
func EncodeVisualQuery(itemID string) string {
	return VisualQueryPrefix + itemID
}

// IsVisualQuery проверяет точный, регистрозависимый префикс.
// Пустой запрос визуальным не считается.
func IsVisualQuery(query string) bool {
	return strings.HasPrefix(query, VisualQueryPrefix)
}

// VisualItemID извлекает id предмета из визуального запроса.
func VisualItemID(query string) (string, bool) {
	if !IsVisualQuery(query) {
		return "", false
	}
	return strings.TrimPrefix(query, VisualQueryPrefix), true
}

// Route: переход на страницу витрины.
type Route struct {
	Name     string
	Query    string
	SortCode string
}

// VisualSearchRoute строит переход на страницу поиска для предмета.
func VisualSearchRoute(itemID string) Route {
	return Route{
		Name:     SearchRoute,
		Query:    EncodeVisualQuery(itemID),
		SortCode: VisualRelevanceSort,
	}
}

// Values возвращает параметры запроса маршрута.
func (r Route) Values() url.Values {
	v := url.Values{}
	if r.Query != "" {
		v.Set("query", r.Query)
	}
	if r.SortCode != "" {
		v.Set("sortCode", r.SortCode)
	}
	return v
}

// URL собирает ссылку на маршрут относительно base.
func (r Route) URL(base string) string {
	u := strings.TrimRight(base, "/") + "/" + r.Name
	if q := r.Values().Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// PageType: тип страницы витрины.
type PageType string

const (
	PageContent  PageType = "CONTENT_PAGE"
	PageProduct  PageType = "PRODUCT_PAGE"
	PageCategory PageType = "CATEGORY_PAGE"
)

// SearchPageID: id универсальной страницы поиска.
const SearchPageID = "search"

// PageContext: текущая страница и её запрос.
type PageContext struct {
	Type  PageType
	ID    string
	Query string
}

// IsSearchPage проверяет, что это универсальная страница поиска.
func (p PageContext) IsSearchPage() bool {
	return p.Type == PageContent && p.ID == SearchPageID
}

// FacetScope: решение о сужении выдачи фасетом категории.
type FacetScope string

const (
	ScopeNone     FacetScope = "none"     // обычное поведение страницы
	ScopeCategory FacetScope = "category" // сузить по фасету категории
	ScopeVisual   FacetScope = "visual"   // не сужать: выдача уже отобрана детекцией
)
