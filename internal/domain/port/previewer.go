package port

import "visual-search/internal/domain/entity"

// Previewer рисует рамки поверх изображения
type Previewer interface {
	Render(imageData []byte, boxes []entity.OverlayBox) ([]byte, error)
}
