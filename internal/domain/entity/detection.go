package entity

// DetectionItem: предмет одежды, найденный сервисом распознавания.
// Координаты нормированы в [0,1], начало в левом верхний угол.
type DetectionItem struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
}

// DetectionResult: ответ сервиса на одну загрузку. Порядок элементов
// совпадает с порядком в ответе.
type DetectionResult struct {
	Items []DetectionItem `json:"boundingBoxes"`
}

// Empty сообщает, что на изображении ничего не найдено.
func (r *DetectionResult) Empty() bool {
	return r == nil || len(r.Items) == 0
}

// First возвращает первый найденный предмет.
func (r *DetectionResult) First() (DetectionItem, bool) {
	if r.Empty() {
		return DetectionItem{}, false
	}
	return r.Items[0], true
}

// OverlayBox: рамка поверх изображения в процентах от его размеров.
type OverlayBox struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToOverlayBox переводит нормированные координаты в проценты.
// Значения не ограничиваются: кривые координаты от сервиса видны как есть.
func ToOverlayBox(item DetectionItem) OverlayBox {
	return OverlayBox{
		ID:     item.ID,
		Title:  item.Label,
		Left:   item.X1 * 100,
		Top:    item.Y1 * 100,
		Width:  (item.X2 - item.X1) * 100,
		Height: (item.Y2 - item.Y1) * 100,
	}
}

// OverlayBoxes сохраняет порядок детекций.
func OverlayBoxes(items []DetectionItem) []OverlayBox {
	boxes := make([]OverlayBox, 0, len(items))
	for _, item := range items {
		boxes = append(boxes, ToOverlayBox(item))
	}
	return boxes
}
