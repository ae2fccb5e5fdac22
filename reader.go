package yellowplate

import (
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/postprocess"
	"github.com/swdee/go-yellowplate/preprocess"
	"gocv.io/x/gocv"
)

// PlateReader extracts the plate code from a candidate plate image
type PlateReader struct {
	recognizer ocr.TextRecognizer
	params     preprocess.BinarizeParams
	// length is the exact number of characters a plate code must have
	length int
	logger *logrus.Logger
	// bin holds the binarized plate between calls
	bin gocv.Mat
}

// NewPlateReader returns a PlateReader that binarizes plate images with the
// given parameters and passes them to the recognizer
func NewPlateReader(rec ocr.TextRecognizer, p preprocess.BinarizeParams, length int) *PlateReader {
	return &PlateReader{
		recognizer: rec,
		params:     p,
		length:     length,
		logger:     logrus.StandardLogger(),
		bin:        gocv.NewMat(),
	}
}

// SetLogger sets the logger used to report OCR failures
func (r *PlateReader) SetLogger(logger *logrus.Logger) {
	r.logger = logger
}

// Read binarizes the plate image, runs OCR on it and filters the text.  It
// returns a PlateCode of exactly the configured length or
// postprocess.Unrecognized, OCR errors are treated as nothing recognized.
func (r *PlateReader) Read(plate gocv.Mat) postprocess.PlateCode {

	if plate.Empty() {
		return postprocess.Unrecognized
	}

	preprocess.BinarizePlate(plate, r.params, &r.bin)

	raw, err := r.recognizer.Recognize(r.bin)

	if err != nil {
		r.logger.WithError(err).Debug("OCR failed on plate candidate")
		return postprocess.Unrecognized
	}

	code := postprocess.FilterPlateText(raw, r.length)

	if code == postprocess.Unrecognized {
		r.logger.WithField("raw", raw).Debug("plate text rejected")
	}

	return code
}

// Close frees the binarization buffer
func (r *PlateReader) Close() error {
	return r.bin.Close()
}
