package render

import (
	"fmt"
	"github.com/swdee/go-yellowplate/tracker"
	"gocv.io/x/gocv"
	"image"
)

// PlateColor is the plate color name shown in the overlay
const PlateColor = "Yellow"

// PlateLabel returns the overlay text for a displayed plate code
func PlateLabel(code string) string {
	return fmt.Sprintf("Plate: %s Color: %s", code, PlateColor)
}

// Annotator draws plate candidates and the displayed plate onto frames
type Annotator struct {
	// Box is the style of candidate bounding boxes
	Box BoxStyle
	// Confirmed is the style of the box around the displayed plate
	Confirmed BoxStyle
	// Text renders the plate status line
	Text TextWriter
	// Origin is the position of the plate status line
	Origin image.Point
}

// NewAnnotator returns an Annotator drawing green candidate boxes, a yellow
// box where the displayed plate was confirmed and blue Hershey text in the top
// left corner
func NewAnnotator() *Annotator {
	return &Annotator{
		Box: DefaultBoxStyle(),
		Confirmed: BoxStyle{
			Color:         Yellow,
			LineThickness: 2,
		},
		Text:   DefaultFont(),
		Origin: image.Pt(50, 50),
	}
}

// Annotate draws a box around each candidate region and, when the display
// state is active, the box the plate was confirmed in and the plate status
// line.  Candidate boxes are drawn over the confirmed box.
func (a *Annotator) Annotate(img *gocv.Mat, boxes []image.Rectangle, state tracker.State) error {

	if state.Active && !state.Box.Empty() {
		CandidateBoxes(img, []image.Rectangle{state.Box}, a.Confirmed)
	}

	CandidateBoxes(img, boxes, a.Box)

	if !state.Active {
		return nil
	}

	err := a.Text.WriteText(img, PlateLabel(state.Code.String()), a.Origin)

	if err != nil {
		return fmt.Errorf("error writing plate label: %w", err)
	}

	return nil
}

// CandidateBoxes draws a rectangle around each plate candidate region
func CandidateBoxes(img *gocv.Mat, boxes []image.Rectangle, style BoxStyle) {
	for _, box := range boxes {
		// gocv rectangles include the bottom right point
		rect := image.Rect(box.Min.X, box.Min.Y, box.Max.X-1, box.Max.Y-1)
		gocv.Rectangle(img, rect, style.Color, style.LineThickness)
	}
}
