//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// ErrNoGoCV: сборка без тега gocv, превью не рисуется.
var ErrNoGoCV = errors.New("gocv build tag is not enabled")

type GoCVPreviewer struct {
	MaxSide   int
	Thickness int
	Quality   int
}

// NewGoCVPreviewer создаёт рендерер-заглушку (без OpenCV).
func NewGoCVPreviewer() *GoCVPreviewer {
	return &GoCVPreviewer{
		MaxSide:   1024,
		Thickness: 2,
		Quality:   90,
	}
}

// Render возвращает ошибку, если сборка без тега gocv.
func (p *GoCVPreviewer) Render(imageData []byte, boxes []entity.OverlayBox) ([]byte, error) {
	_ = imageData
	_ = boxes
	return nil, ErrNoGoCV
}

var _ port.Previewer = (*GoCVPreviewer)(nil)
