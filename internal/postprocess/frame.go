package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// AlphaBounds returns the bounding box of pixels with non-zero alpha, or an
// empty rectangle for a fully transparent image.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// CropAndCenter crops to the opaque content, scales it so its longer side
// spans fill × size, and centres it on a transparent size×size canvas.
func CropAndCenter(img *image.NRGBA, size int, fill float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	crop := AlphaBounds(img)
	if crop.Empty() {
		return canvas
	}

	scale := float64(size) * fill / math.Max(float64(crop.Dx()), float64(crop.Dy()))
	w := max(1, int(float64(crop.Dx())*scale+0.5))
	h := max(1, int(float64(crop.Dy())*scale+0.5))

	offX := (size - w) / 2
	offY := (size - h) / 2
	target := image.Rect(offX, offY, offX+w, offY+h)

	tmp := image.NewRGBA(canvas.Bounds())
	draw.CatmullRom.Scale(tmp, target, premultiply(img), crop, draw.Src, nil)
	return unpremultiply(tmp)
}

// ContactSheet tiles images into a grid of cols columns with cell×cell
// tiles. Images are scaled to fit their cell.
func ContactSheet(images []*image.NRGBA, cols, cell int) *image.NRGBA {
	if cols < 1 {
		cols = 1
	}
	rows := (len(images) + cols - 1) / cols
	sheet := image.NewRGBA(image.Rect(0, 0, cols*cell, max(rows, 1)*cell))
	for i, img := range images {
		if img == nil {
			continue
		}
		x := (i % cols) * cell
		y := (i / cols) * cell
		draw.CatmullRom.Scale(sheet, image.Rect(x, y, x+cell, y+cell), premultiply(img), img.Bounds(), draw.Over, nil)
	}
	return unpremultiply(sheet)
}
