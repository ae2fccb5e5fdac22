package render

import (
	"fmt"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
	"image/draw"
	"os"
)

// TTFFont renders text using a TrueType font, supporting characters the
// Hershey fonts can not draw at the cost of slower rendering
type TTFFont struct {
	face  font.Face
	color color.RGBA
}

// NewTTFFont loads the TTF font file and returns a TextWriter for it at the
// given point size
func NewTTFFont(fontPath string, size float64, clr color.RGBA) (*TTFFont, error) {

	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &TTFFont{
		face:  face,
		color: clr,
	}, nil
}

// WriteText draws the text on a transparent layer the size of the image and
// blends it over the image
func (t *TTFFont) WriteText(img *gocv.Mat, text string, org image.Point) error {

	if img.Empty() {
		return fmt.Errorf("error writing text on empty image")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}), image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(t.color),
		Face: t.face,
		Dot: fixed.Point26_6{
			X: fixed.I(org.X),
			Y: fixed.I(org.Y),
		},
	}
	dr.DrawString(text)

	layer, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(),
		gocv.MatTypeCV8UC4, rgba.Pix)

	if err != nil {
		return fmt.Errorf("error creating Mat from RGBA: %w", err)
	}

	defer layer.Close()

	if layer.Empty() {
		return fmt.Errorf("error creating Mat from RGBA: empty %dx%d layer",
			img.Cols(), img.Rows())
	}

	gocv.CvtColor(layer, &layer, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, layer, 1.0, 0, img)

	return nil
}

// Close releases the font face
func (t *TTFFont) Close() error {
	return t.face.Close()
}
