package yellowplate

import (
	"errors"
	"github.com/swdee/go-yellowplate/internal/log"
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/postprocess"
	"gocv.io/x/gocv"
	"image"
	"testing"
	"time"
)

var (
	t0        = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	plateRect = image.Rect(100, 100, 250, 160)
)

func newTestDetector(rec *fakeOCR) *Detector {
	d := NewDetector(YellowPlateParams(), rec)
	d.SetLogger(log.Discard())
	return d
}

func TestTickNoRecognizableText(t *testing.T) {

	rec := constOCR("~ .")
	d := newTestDetector(rec)
	defer d.Close()

	frame := newFrame(plateRect)
	defer frame.Close()

	act := d.Tick(frame, t0)
	defer act.Close()

	if len(act.Candidates) != 1 || act.Candidates[0] != plateRect {
		t.Fatalf("expected one candidate at %v, got %v", plateRect, act.Candidates)
	}

	if rec.calls() != 1 {
		t.Errorf("expected OCR to be called once, got %d", rec.calls())
	}

	if len(act.Recognitions) != 0 || act.Confirmed != nil {
		t.Errorf("expected no recognitions, got %d", len(act.Recognitions))
	}

	if act.State.Active || d.Display().State().Active {
		t.Errorf("expected display to remain inactive")
	}
}

func TestTickRecognizesPlate(t *testing.T) {

	rec := constOCR("AB1234\n")
	d := newTestDetector(rec)
	defer d.Close()

	frame := newFrame(plateRect)
	defer frame.Close()
	writeOnPlate(&frame, plateRect, "AB1234")

	act := d.Tick(frame, t0)
	defer act.Close()

	if len(act.Recognitions) != 1 {
		t.Fatalf("expected 1 recognition, got %d", len(act.Recognitions))
	}

	r := act.Recognitions[0]

	if r.Code != "AB1234" || r.Box != plateRect || !r.At.Equal(t0) {
		t.Errorf("unexpected recognition %+v", r)
	}

	if r.Image.Cols() != 150 || r.Image.Rows() != 60 {
		t.Errorf("expected 150x60 plate image, got %dx%d", r.Image.Cols(), r.Image.Rows())
	}

	// OCR receives the binarized single channel plate
	if rec.sizes[0] != image.Pt(150, 60) || rec.chans[0] != 1 {
		t.Errorf("OCR received %v with %d channels", rec.sizes[0], rec.chans[0])
	}

	if act.Confirmed == nil || act.Confirmed.Code != "AB1234" {
		t.Errorf("expected AB1234 to be confirmed")
	}

	s := act.State

	if !s.Active || s.Code != "AB1234" || !s.StartedAt.Equal(t0) {
		t.Errorf("expected active AB1234 state, got %+v", s)
	}
}

func TestTickLatestCodeDisplayed(t *testing.T) {

	rec := sequenceOCR("AB1234", "XY9876")
	d := newTestDetector(rec)
	defer d.Close()

	frame := newFrame(plateRect)
	defer frame.Close()

	act1 := d.Tick(frame, t0)
	act1.Close()

	if act1.State.Code != "AB1234" {
		t.Fatalf("expected AB1234 after first frame, got %q", act1.State.Code)
	}

	t1 := t0.Add(time.Second)
	act2 := d.Tick(frame, t1)
	act2.Close()

	if act2.State.Code != "XY9876" || !act2.State.StartedAt.Equal(t1) {
		t.Errorf("expected XY9876 confirmed at t1, got %+v", act2.State)
	}

	// no further confirmations, display persists until 30s after t1
	act3 := d.Tick(frame, t1.Add(30*time.Second))
	act3.Close()

	if !act3.State.Active || act3.State.Code != "XY9876" {
		t.Errorf("expected display to persist, got %+v", act3.State)
	}

	act4 := d.Tick(frame, t1.Add(30*time.Second+100*time.Millisecond))
	act4.Close()

	if act4.State.Active {
		t.Errorf("expected display to expire, got %+v", act4.State)
	}
}

func TestTickLargestPlateWins(t *testing.T) {

	small := image.Rect(20, 20, 170, 80)
	large := image.Rect(300, 250, 520, 340)

	// read the plate by its width so the result is independent of the
	// order candidates are found in
	rec := newFakeOCR(func(img gocv.Mat) string {
		if img.Cols() == large.Dx() {
			return "LRG-01"
		}
		return "SML-01"
	})

	d := newTestDetector(rec)
	defer d.Close()

	frame := newFrame(small, large)
	defer frame.Close()

	act := d.Tick(frame, t0)
	defer act.Close()

	if len(act.Recognitions) != 2 {
		t.Fatalf("expected 2 recognitions, got %d", len(act.Recognitions))
	}

	if act.Confirmed == nil || act.Confirmed.Code != "LRG-01" || act.Confirmed.Box != large {
		t.Errorf("expected largest plate to be confirmed, got %+v", act.Confirmed)
	}

	if act.State.Code != "LRG-01" {
		t.Errorf("expected display to show LRG-01, got %q", act.State.Code)
	}
}

func TestTickInvalidTextKeepsState(t *testing.T) {

	rec := sequenceOCR("AB1234", "AB12", "AB1234567")
	d := newTestDetector(rec)
	defer d.Close()

	frame := newFrame(plateRect)
	defer frame.Close()

	for i := 0; i < 3; i++ {
		act := d.Tick(frame, t0.Add(time.Duration(i)*time.Second))

		if i > 0 && len(act.Recognitions) != 0 {
			t.Errorf("frame %d: invalid text produced a recognition", i)
		}

		if act.State.Code != "AB1234" || !act.State.StartedAt.Equal(t0) {
			t.Errorf("frame %d: state changed to %+v", i, act.State)
		}

		act.Close()
	}
}

func TestTickNoPlate(t *testing.T) {

	rec := constOCR("AB1234")
	d := newTestDetector(rec)
	defer d.Close()

	frame := newFrame()
	defer frame.Close()

	act := d.Tick(frame, t0)
	defer act.Close()

	if len(act.Candidates) != 0 || rec.calls() != 0 || act.State.Active {
		t.Errorf("expected nothing detected on an empty scene")
	}

	empty := gocv.NewMat()
	defer empty.Close()

	act2 := d.Tick(empty, t0)
	defer act2.Close()

	if len(act2.Candidates) != 0 {
		t.Errorf("expected no candidates for empty Mat")
	}
}

func TestPlateReaderRejectsAndAccepts(t *testing.T) {

	tests := []struct {
		raw  string
		want postprocess.PlateCode
	}{
		{"AB1234", "AB1234"},
		{" AB-123 \n", "AB-123"},
		{"", postprocess.Unrecognized},
		{"ABC", postprocess.Unrecognized},
		{"AB12345", postprocess.Unrecognized},
	}

	plate := newFrame(image.Rect(0, 0, 640, 480))
	defer plate.Close()

	for _, tc := range tests {
		r := NewPlateReader(constOCR(tc.raw), YellowPlateParams().Binarize, postprocess.PlateLength)
		r.SetLogger(log.Discard())

		if got := r.Read(plate); got != tc.want {
			t.Errorf("Read with OCR %q = %q, want %q", tc.raw, got, tc.want)
		}

		r.Close()
	}
}

func TestTickConfiguredPlateLength(t *testing.T) {

	p := YellowPlateParams()
	p.PlateLength = 7

	d := NewDetector(p, sequenceOCR("ABC1234", "AB1234"))
	d.SetLogger(log.Discard())
	defer d.Close()

	frame := newFrame(plateRect)
	defer frame.Close()

	act := d.Tick(frame, t0)
	defer act.Close()

	if len(act.Recognitions) != 1 || act.Recognitions[0].Code != "ABC1234" {
		t.Fatalf("expected ABC1234 recognized, got %+v", act.Recognitions)
	}

	if act.Confirmed == nil || !act.State.Active || act.State.Code != "ABC1234" {
		t.Errorf("expected ABC1234 confirmed and displayed, got %+v", act.State)
	}

	// six characters no longer form a plate code
	act2 := d.Tick(frame, t0.Add(time.Second))
	defer act2.Close()

	if len(act2.Recognitions) != 0 || act2.Confirmed != nil {
		t.Errorf("expected six character text to be rejected")
	}

	if act2.State.Code != "ABC1234" || !act2.State.StartedAt.Equal(t0) {
		t.Errorf("state changed to %+v", act2.State)
	}
}

func TestPlateReaderRecognizerError(t *testing.T) {

	calls := 0
	rec := ocr.RecognizerFunc(func(img gocv.Mat) (string, error) {
		calls++
		return "AB1234", errors.New("engine failure")
	})

	r := NewPlateReader(rec, YellowPlateParams().Binarize, postprocess.PlateLength)
	r.SetLogger(log.Discard())
	defer r.Close()

	plate := newFrame(image.Rect(0, 0, 640, 480))
	defer plate.Close()

	if got := r.Read(plate); got != postprocess.Unrecognized {
		t.Errorf("expected Unrecognized on OCR error, got %q", got)
	}

	if calls != 1 {
		t.Errorf("expected a single OCR attempt, got %d", calls)
	}
}
