package postprocess

import (
	clipper "github.com/ctessum/go.clipper"
	"gocv.io/x/gocv"
	"image"
)

// CandidateFinder locates plate shaped regions in a cleaned color mask
type CandidateFinder struct {
	Params CandidateParams
}

// CandidateParams defines the geometry filters applied to mask contours
type CandidateParams struct {
	// MinWidth is the bounding box width a region must exceed
	MinWidth int `yaml:"minWidth" validate:"gte=0"`
	// MinHeight is the bounding box height a region must exceed
	MinHeight int `yaml:"minHeight" validate:"gte=0"`
	// Epsilon is the maximum polygon approximation deviation as a ratio of
	// the contour perimeter
	Epsilon float64 `yaml:"epsilon" validate:"gt=0,lt=1"`
	// Vertices is the number of corners the approximated polygon must have
	Vertices int `yaml:"vertices" validate:"gte=3"`
	// Margin is the number of pixels to grow the plate quadrilateral by
	// before cropping.  Zero crops the exact bounding box.
	Margin int `yaml:"margin" validate:"gte=0"`
}

// Candidate is a region of the frame suspected of containing a plate
type Candidate struct {
	// Box is the axis aligned bounding box of the region in frame coordinates
	Box image.Rectangle
	// Quad holds the vertices of the approximated polygon
	Quad []image.Point
	// Image is a copy of the frame pixels bounded by Box
	Image gocv.Mat
}

// DefaultCandidateParams returns the plate size heuristics for yellow plates
func DefaultCandidateParams() CandidateParams {
	return CandidateParams{
		MinWidth:  100,
		MinHeight: 40,
		Epsilon:   0.02,
		Vertices:  4,
		Margin:    0,
	}
}

// NewCandidateFinder returns a CandidateFinder using the given parameters
func NewCandidateFinder(p CandidateParams) *CandidateFinder {
	return &CandidateFinder{
		Params: p,
	}
}

// Area returns the pixel area of the candidate bounding box
func (c Candidate) Area() int {
	return c.Box.Dx() * c.Box.Dy()
}

// Close frees the candidate image
func (c *Candidate) Close() error {
	return c.Image.Close()
}

// CloseCandidates frees all candidate images
func CloseCandidates(cands []Candidate) {
	for i := range cands {
		cands[i].Close()
	}
}

// Find searches the outer contours of the binary mask for quadrilaterals
// larger than the minimum plate size and returns them along with their
// pixels cropped from the original frame.  Results are in contour discovery
// order.  The caller must Close() each Candidate.
func (f *CandidateFinder) Find(mask gocv.Mat, frame gocv.Mat) []Candidate {

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	frameRect := image.Rect(0, 0, frame.Cols(), frame.Rows())
	cands := make([]Candidate, 0)

	for i := 0; i < contours.Size(); i++ {

		contour := contours.At(i)

		perimeter := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, f.Params.Epsilon*perimeter, true)

		if approx.Size() != f.Params.Vertices {
			approx.Close()
			continue
		}

		box := gocv.BoundingRect(approx)
		quad := approx.ToPoints()
		approx.Close()

		if box.Dx() <= f.Params.MinWidth || box.Dy() <= f.Params.MinHeight {
			continue
		}

		if f.Params.Margin > 0 {
			box = growQuad(quad, f.Params.Margin).Union(box).Intersect(frameRect)
		}

		region := frame.Region(box)
		crop := region.Clone()
		region.Close()

		cands = append(cands, Candidate{
			Box:   box,
			Quad:  quad,
			Image: crop,
		})
	}

	return cands
}

// growQuad offsets the polygon outwards by margin pixels keeping square
// corners and returns the bounding box of the grown polygon
func growQuad(quad []image.Point, margin int) image.Rectangle {

	var path clipper.Path

	for _, pt := range quad {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtMiter, clipper.EtClosedPolygon)

	solution := co.Execute(float64(margin))

	var rect image.Rectangle

	for _, sol := range solution {
		for _, pt := range sol {
			// image.Rectangle max is exclusive
			ptRect := image.Rect(int(pt.X), int(pt.Y), int(pt.X)+1, int(pt.Y)+1)
			rect = rect.Union(ptRect)
		}
	}

	return rect
}
