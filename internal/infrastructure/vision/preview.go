//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// GoCVPreviewer рисует рамки найденных предметов поверх фото.
type GoCVPreviewer struct {
	MaxSide   int // длинная сторона превью в пикселях
	Thickness int
	Quality   int
}

// NewGoCVPreviewer создаёт рендерер превью.
func NewGoCVPreviewer() *GoCVPreviewer {
	return &GoCVPreviewer{
		MaxSide:   1024,
		Thickness: 2,
		Quality:   90,
	}
}

// Render переводит проценты рамок в пиксели и возвращает JPEG.
func (p *GoCVPreviewer) Render(imageData []byte, boxes []entity.OverlayBox) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// Приводим изображение к стандартному размеру, чтобы толщина линий была заметна.
	if mat.Cols() > p.MaxSide || mat.Rows() > p.MaxSide {
		scale := float64(p.MaxSide) / float64(maxInt(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(int(float64(mat.Cols())*scale), int(float64(mat.Rows())*scale)), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	w, h := float64(mat.Cols()), float64(mat.Rows())
	green := color.RGBA{G: 255, A: 255}
	for i, box := range boxes {
		rect := image.Rect(
			int(box.Left*w/100),
			int(box.Top*h/100),
			int((box.Left+box.Width)*w/100),
			int((box.Top+box.Height)*h/100),
		)
		gocv.Rectangle(&mat, rect, green, p.Thickness)
		gocv.PutText(&mat, Label(i, box), image.Pt(rect.Min.X+4, rect.Min.Y+18), gocv.FontHersheySimplex, 0.6, green, p.Thickness)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var _ port.Previewer = (*GoCVPreviewer)(nil)
