package preprocess

import (
	"gocv.io/x/gocv"
	"image"
)

const (
	// DenoiseKernel is the default size of the square structuring element
	// used to open the color mask
	DenoiseKernel = 5
	// CloseKernel is the default size of the square structuring element used
	// to reconnect character strokes after thresholding
	CloseKernel = 3
)

// Denoise applies a morphological opening (erosion followed by dilation) to
// the binary mask with a square kernel of kernelSize, removing isolated noise
// pixels whilst keeping the shape of larger blobs
func Denoise(mask gocv.Mat, kernelSize int, dst *gocv.Mat) {
	morph(mask, gocv.MorphOpen, kernelSize, dst)
}

// Close applies a morphological closing (dilation followed by erosion) with a
// square kernel of kernelSize
func Close(src gocv.Mat, kernelSize int, dst *gocv.Mat) {
	morph(src, gocv.MorphClose, kernelSize, dst)
}

// morph runs the morphology operation op with a rectangular kernel
func morph(src gocv.Mat, op gocv.MorphType, kernelSize int, dst *gocv.Mat) {

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSize, kernelSize))
	defer kernel.Close()

	gocv.MorphologyEx(src, dst, op, kernel)
}
