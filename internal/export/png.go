package export

import (
	"image"
	"io"
	"strconv"

	"github.com/fogleman/gg"
)

// labelMin is the smallest radius, in layout units, that gets a label.
const labelMin = 12

// Raster draws the scene at scale pixels per layout unit. Flags are not
// drawn; bubbles large enough carry their identifier instead.
func Raster(sc Scene, scale float64) image.Image {
	if scale <= 0 {
		scale = 1
	}
	dc := gg.NewContext(int(sc.Width*scale+0.5), int(sc.Height*scale+0.5))
	dc.Scale(scale, scale)
	dc.SetHexColor(background)
	dc.Clear()

	dc.SetLineWidth(1)
	for _, b := range sc.Bubbles {
		if b.R <= 0 {
			continue
		}
		dc.DrawCircle(b.X, b.Y, b.R)
		dc.SetHexColor(b.Color)
		dc.FillPreserve()
		dc.SetHexColor(stroke(b.Color))
		dc.Stroke()
	}

	dc.SetHexColor("#333333")
	for _, b := range sc.Bubbles {
		if b.R >= labelMin {
			dc.DrawStringAnchored(b.ID, b.X, b.Y, 0.5, 0.5)
		}
	}

	y := legendY
	for i, label := range [2]string{sc.Low, sc.High} {
		r := legendRadii[i]
		y += r
		dc.DrawCircle(legendX+legendRadii[1], y, r)
		dc.Stroke()
		dc.DrawStringAnchored(label, legendX+2*legendRadii[1]+legendMargin, y, 0, 0.5)
		y += r + legendMargin
	}

	dc.DrawString(strconv.Itoa(sc.Year), legendMargin, sc.Height-legendMargin)
	return dc.Image()
}

// EncodePNG writes the raster of sc to w.
func EncodePNG(w io.Writer, sc Scene, scale float64) error {
	dc := gg.NewContextForImage(Raster(sc, scale))
	return dc.EncodePNG(w)
}

func WritePNG(path string, sc Scene, scale float64) error {
	return gg.SavePNG(path, Raster(sc, scale))
}
