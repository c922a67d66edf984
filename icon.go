package traybridge

import (
	"image"
	"image/draw"
)

// Icon represents icon of the status item.
type Icon struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// NewIconFromImage returns a new [Icon] from a decoded image.
//
// Pixel data is converted to the pixmap format of the StatusNotifierItem
// specification
//
//	[<width>, <height>, <bytes>]
//
// Where:
//   - <width>: width of the icon (int32)
//   - <height>: height of the icon (int32)
//   - <bytes>: ARGB32 pixels in network byte order ([]byte)
func NewIconFromImage(img image.Image) *Icon {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	bytes := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			offset := rgba.PixOffset(rgba.Bounds().Min.X+x, rgba.Bounds().Min.Y+y)
			r, g, b, a := rgba.Pix[offset], rgba.Pix[offset+1], rgba.Pix[offset+2], rgba.Pix[offset+3]
			bytes = append(bytes, a, r, g, b)
		}
	}

	return &Icon{
		Width:  int32(w),
		Height: int32(h),
		Bytes:  bytes,
	}
}

// Empty reports whether the icon has no visible area. Hosts resolve such
// images without error, and the status item keeps its previous pixmap.
func (icon *Icon) Empty() bool {
	return icon == nil || icon.Width == 0 || icon.Height == 0
}

// dbusPixmap is the wire form of a single pixmap, signature (iiay).
type dbusPixmap struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// pixmaps returns the D-Bus representation of the icon, a slice of pixmaps
// as required by the IconPixmap property. A nil or empty icon yields an
// empty slice, which visualizations treat as "no icon".
func (icon *Icon) pixmaps() []dbusPixmap {
	if icon.Empty() {
		return []dbusPixmap{}
	}

	return []dbusPixmap{{Width: icon.Width, Height: icon.Height, Bytes: icon.Bytes}}
}
