package vision

import (
	"fmt"

	"visual-search/internal/domain/entity"
)

// Label: подпись рамки: порядковый номер и категория.
// Номер совпадает с номером кнопки "похожие" под превью.
func Label(i int, box entity.OverlayBox) string {
	if box.Title == "" {
		return fmt.Sprintf("%d", i+1)
	}
	return fmt.Sprintf("%d %s", i+1, box.Title)
}
