package preprocess

import (
	"gocv.io/x/gocv"
)

// BinarizeParams defines the parameters used to separate dark plate characters
// from the lighter plate background ahead of OCR
type BinarizeParams struct {
	// BlockSize is the size of the pixel neighbourhood used by the adaptive
	// threshold, it must be odd and greater than 1
	BlockSize int `yaml:"blockSize" validate:"gt=1"`
	// C is the constant subtracted from the Gaussian weighted local mean
	C float32 `yaml:"c"`
	// CloseKernel is the size of the square kernel used to close broken
	// character strokes after thresholding
	CloseKernel int `yaml:"closeKernel" validate:"gte=1"`
}

// DefaultBinarizeParams returns the binarization settings for yellow plates
func DefaultBinarizeParams() BinarizeParams {
	return BinarizeParams{
		BlockSize:   11,
		C:           2,
		CloseKernel: CloseKernel,
	}
}

// BinarizePlate converts the BGR plate image to grayscale, applies an inverted
// Gaussian adaptive threshold so characters become white on black regardless
// of uneven lighting, then closes small gaps in the strokes.  The result is
// written to dst as a single channel binary image.
func BinarizePlate(plate gocv.Mat, p BinarizeParams, dst *gocv.Mat) {

	gray := gocv.NewMat()
	defer gray.Close()

	gocv.CvtColor(plate, &gray, gocv.ColorBGRToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()

	gocv.AdaptiveThreshold(gray, &thresh, 255, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinaryInv, p.BlockSize, p.C)

	Close(thresh, p.CloseKernel, dst)
}
