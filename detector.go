package yellowplate

import (
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/postprocess"
	"github.com/swdee/go-yellowplate/preprocess"
	"github.com/swdee/go-yellowplate/tracker"
	"gocv.io/x/gocv"
	"image"
	"time"
)

// DetectorParams defines the parameters of every stage of the plate
// detection pipeline
type DetectorParams struct {
	// Color is the HSV range of plate pixels
	Color preprocess.HSVRange `yaml:"color"`
	// DenoiseKernel is the size of the square kernel used to open the mask
	DenoiseKernel int `yaml:"denoiseKernel" validate:"gte=1"`
	// Candidate are the plate geometry filters
	Candidate postprocess.CandidateParams `yaml:"candidate"`
	// Binarize are the settings used to prepare plate images for OCR
	Binarize preprocess.BinarizeParams `yaml:"binarize"`
	// PlateLength is the exact number of characters of a plate code
	PlateLength int `yaml:"plateLength" validate:"gte=1"`
	// DisplayTimeout is how long a confirmed plate stays displayed
	DisplayTimeout time.Duration `yaml:"displayTimeout" validate:"gt=0"`
}

// YellowPlateParams returns the detector parameters for yellow plates with
// six character codes
func YellowPlateParams() DetectorParams {
	return DetectorParams{
		Color:          preprocess.YellowRange(),
		DenoiseKernel:  preprocess.DenoiseKernel,
		Candidate:      postprocess.DefaultCandidateParams(),
		Binarize:       preprocess.DefaultBinarizeParams(),
		PlateLength:    postprocess.PlateLength,
		DisplayTimeout: tracker.DefaultDisplayTimeout,
	}
}

// Recognition is a plate code read from a candidate region of a frame
type Recognition struct {
	Code postprocess.PlateCode
	// Box is the region of the frame the plate was read from
	Box image.Rectangle
	// Image is a copy of the plate region, freed by Action.Close()
	Image gocv.Mat
	// At is the time the frame was processed
	At time.Time
}

// Action describes what should be presented and persisted for a processed
// frame
type Action struct {
	// Candidates are the bounding boxes of all plate shaped regions found
	Candidates []image.Rectangle
	// Recognitions are the plates recognized in the frame, in candidate
	// discovery order.  Each should be persisted and reported.
	Recognitions []Recognition
	// Confirmed is the recognition the display state was updated with, or
	// nil if nothing was confirmed
	Confirmed *Recognition
	// State is the display state after processing the frame
	State tracker.State
}

// Close frees the recognition images held by the action
func (a *Action) Close() {
	for i := range a.Recognitions {
		a.Recognitions[i].Image.Close()
	}
}

// Detector runs the per frame plate detection and recognition pipeline and
// owns the display state.  It performs no camera, window or disk I/O.
type Detector struct {
	params  DetectorParams
	finder  *postprocess.CandidateFinder
	reader  *PlateReader
	display *tracker.Display
	metrics *Metrics
	logger  *logrus.Logger
	// mask and cleaned are reused between frames
	mask    gocv.Mat
	cleaned gocv.Mat
}

// NewDetector returns a Detector using the given parameters and recognizer
func NewDetector(p DetectorParams, rec ocr.TextRecognizer) *Detector {
	return &Detector{
		params:  p,
		finder:  postprocess.NewCandidateFinder(p.Candidate),
		reader:  NewPlateReader(rec, p.Binarize, p.PlateLength),
		display: tracker.NewDisplay(p.DisplayTimeout, p.PlateLength),
		logger:  logrus.StandardLogger(),
		mask:    gocv.NewMat(),
		cleaned: gocv.NewMat(),
	}
}

// SetLogger sets the logger used by the detector
func (d *Detector) SetLogger(logger *logrus.Logger) {
	d.logger = logger
	d.reader.SetLogger(logger)
}

// SetMetrics sets the metrics the detector records to
func (d *Detector) SetMetrics(m *Metrics) {
	d.metrics = m

	if err := m.WatchDisplay(d.display); err != nil {
		d.logger.WithError(err).Warn("display state will not be reported")
	}
}

// Display returns the display state tracker
func (d *Detector) Display() *tracker.Display {
	return d.display
}

// Tick processes one frame at time now.  The yellow mask is cleaned and
// searched for plate shaped regions, each region is read by OCR, and the
// largest region with a valid code confirms the displayed plate.  The display
// state is then expired if its window has passed.  The caller must Close() the
// returned Action.
func (d *Detector) Tick(frame gocv.Mat, now time.Time) Action {

	act := Action{}

	if frame.Empty() {
		act.State = d.display.Tick(now)
		return act
	}

	preprocess.SelectColor(frame, d.params.Color, &d.mask)
	preprocess.Denoise(d.mask, d.params.DenoiseKernel, &d.cleaned)

	cands := d.finder.Find(d.cleaned, frame)
	defer postprocess.CloseCandidates(cands)

	best := -1

	for _, cand := range cands {

		act.Candidates = append(act.Candidates, cand.Box)

		code := d.reader.Read(cand.Image)

		if code == postprocess.Unrecognized {
			d.metrics.rejected()
			continue
		}

		act.Recognitions = append(act.Recognitions, Recognition{
			Code:  code,
			Box:   cand.Box,
			Image: cand.Image.Clone(),
			At:    now,
		})

		// largest bounding area wins, ties keep the earlier candidate
		if best < 0 || area(cand.Box) > area(act.Recognitions[best].Box) {
			best = len(act.Recognitions) - 1
		}
	}

	d.metrics.frame(len(cands), len(act.Recognitions))

	if best >= 0 {
		rec := &act.Recognitions[best]

		if d.display.Confirm(rec.Code, rec.Box, now) {
			act.Confirmed = rec
		}
	}

	act.State = d.display.Tick(now)

	return act
}

// Close frees the pipeline buffers
func (d *Detector) Close() error {
	d.mask.Close()
	d.cleaned.Close()
	return d.reader.Close()
}

// area returns the pixel area of the rectangle
func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
