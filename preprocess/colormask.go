package preprocess

import (
	"gocv.io/x/gocv"
)

// HSV is a hue, saturation, value triplet using OpenCV's 8 bit ranges where
// hue is 0-179 and saturation and value are 0-255
type HSV struct {
	H uint8 `yaml:"h" validate:"lte=179"`
	S uint8 `yaml:"s"`
	V uint8 `yaml:"v"`
}

// Scalar returns the HSV triplet as a gocv Scalar
func (c HSV) Scalar() gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}

// HSVRange defines an inclusive lower and upper bound of HSV values used for
// color segmentation
type HSVRange struct {
	Low  HSV `yaml:"low"`
	High HSV `yaml:"high"`
}

// YellowRange returns the HSV range tuned for yellow license plates
func YellowRange() HSVRange {
	return HSVRange{
		Low:  HSV{H: 20, S: 100, V: 100},
		High: HSV{H: 30, S: 255, V: 255},
	}
}

// Contains reports whether the given HSV value lies within the closed range
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Low.H && c.H <= r.High.H &&
		c.S >= r.Low.S && c.S <= r.High.S &&
		c.V >= r.Low.V && c.V <= r.High.V
}

// SelectColor converts the BGR frame to HSV and writes a single channel binary
// mask to dst, where a pixel is 255 if its HSV value falls within the range
// and 0 otherwise
func SelectColor(frame gocv.Mat, rng HSVRange, dst *gocv.Mat) {

	hsv := gocv.NewMat()
	defer hsv.Close()

	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)
	gocv.InRangeWithScalar(hsv, rng.Low.Scalar(), rng.High.Scalar(), dst)
}
