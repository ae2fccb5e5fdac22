package yellowplate

import (
	"fmt"
	"gocv.io/x/gocv"
	"sync"
)

// VideoCamera is a Camera reading from a video capture device
type VideoCamera struct {
	capture *gocv.VideoCapture
	close   sync.Once
}

// OpenCamera opens the video capture device, eg: 0 for /dev/video0
func OpenCamera(device int) (*VideoCamera, error) {

	capture, err := gocv.VideoCaptureDevice(device)

	if err != nil {
		return nil, fmt.Errorf("error opening camera device %d: %w", device, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera device %d could not be opened", device)
	}

	return &VideoCamera{
		capture: capture,
	}, nil
}

// Read reads the next frame, returning false if no frame could be read
func (c *VideoCamera) Read(frame *gocv.Mat) bool {
	return c.capture.Read(frame) && !frame.Empty()
}

// Close releases the capture device, subsequent calls do nothing
func (c *VideoCamera) Close() error {

	var err error

	c.close.Do(func() {
		err = c.capture.Close()
	})

	return err
}

// Window is a Display showing frames in a desktop window.  Pressing the stop
// key whilst the window has focus requests a stop.
type Window struct {
	window  *gocv.Window
	stopKey int
	stop    bool
}

// OpenWindow creates a window with the given title
func OpenWindow(title string, stopKey rune) *Window {
	return &Window{
		window:  gocv.NewWindow(title),
		stopKey: int(stopKey),
	}
}

// Show displays the frame and polls the keyboard for one millisecond
func (w *Window) Show(frame gocv.Mat) {

	w.window.IMShow(frame)

	if key := w.window.WaitKey(1); key >= 0 && key&0xFF == w.stopKey {
		w.stop = true
	}
}

// StopRequested reports whether the stop key was pressed
func (w *Window) StopRequested() bool {
	return w.stop
}

// Close destroys the window
func (w *Window) Close() error {
	return w.window.Close()
}

// NullDisplay discards frames, used when running headless
type NullDisplay struct{}

// Show does nothing
func (NullDisplay) Show(gocv.Mat) {}

// StopRequested always returns false
func (NullDisplay) StopRequested() bool { return false }

// Close does nothing
func (NullDisplay) Close() error { return nil }
