package yellowplate

import (
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/render"
	"gocv.io/x/gocv"
	"image"
	"sync"
)

var (
	// plateBGR is a yellow within the default HSV range
	plateBGR = gocv.NewScalar(0, 220, 255, 0)
)

// newFrame returns a black 640x480 BGR frame with a yellow plate region
// painted at each rect
func newFrame(plates ...image.Rectangle) gocv.Mat {

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)

	for _, rect := range plates {
		region := frame.Region(rect)
		region.SetTo(plateBGR)
		region.Close()
	}

	return frame
}

// writeOnPlate renders dark text inside the plate region
func writeOnPlate(frame *gocv.Mat, plate image.Rectangle, text string) {
	gocv.PutText(frame, text, image.Pt(plate.Min.X+10, plate.Min.Y+40),
		gocv.FontHersheySimplex, 0.9, render.Black, 2)
}

// fakeOCR is a TextRecognizer returning scripted text and recording the size
// of each image it was given
type fakeOCR struct {
	mu    sync.Mutex
	read  func(img gocv.Mat) string
	sizes []image.Point
	chans []int
}

func newFakeOCR(read func(img gocv.Mat) string) *fakeOCR {
	return &fakeOCR{read: read}
}

func (f *fakeOCR) Recognize(img gocv.Mat) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sizes = append(f.sizes, image.Pt(img.Cols(), img.Rows()))
	f.chans = append(f.chans, img.Channels())

	return f.read(img), nil
}

func (f *fakeOCR) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sizes)
}

// constOCR returns a recognizer that always reads text
func constOCR(text string) *fakeOCR {
	return newFakeOCR(func(gocv.Mat) string { return text })
}

// sequenceOCR returns a recognizer reading each text in turn, then empty
// strings
func sequenceOCR(texts ...string) *fakeOCR {
	i := 0
	return newFakeOCR(func(gocv.Mat) string {
		if i >= len(texts) {
			return ""
		}
		i++
		return texts[i-1]
	})
}

var _ ocr.TextRecognizer = (*fakeOCR)(nil)
