/*
Package ocr defines the text recognition capability used to read plate codes
and provides a Tesseract backed implementation.
*/
package ocr

import (
	"gocv.io/x/gocv"
)

// TextRecognizer extracts raw text from a binary image of a single word or
// line.  Implementations may return empty or garbage text, callers are
// expected to filter the result.
type TextRecognizer interface {
	Recognize(img gocv.Mat) (string, error)
}

// RecognizerFunc adapts an ordinary function to the TextRecognizer interface
type RecognizerFunc func(img gocv.Mat) (string, error)

// Recognize calls f(img)
func (f RecognizerFunc) Recognize(img gocv.Mat) (string, error) {
	return f(img)
}
