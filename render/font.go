package render

import (
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

// TextWriter renders a line of text onto an image with the bottom left corner
// of the text at org
type TextWriter interface {
	WriteText(img *gocv.Mat, text string, org image.Point) error
}

// Font defines the parameters for rendering text on an image using GoCV's
// Hershey fonts, it supports Latin characters only
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
}

// DefaultFont returns the font settings used for the plate status overlay
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     1.0,
		Color:     Blue,
		Thickness: 2,
		LineType:  gocv.LineAA,
	}
}

// WriteText draws the text onto the image
func (f Font) WriteText(img *gocv.Mat, text string, org image.Point) error {
	gocv.PutTextWithParams(img, text, org, f.Face, f.Scale, f.Color,
		f.Thickness, f.LineType, false)
	return nil
}

// BoxStyle defines how candidate bounding boxes are drawn
type BoxStyle struct {
	Color         color.RGBA
	LineThickness int
}

// DefaultBoxStyle returns green two pixel boxes
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		Color:         Green,
		LineThickness: 2,
	}
}
