package tracker

import (
	"github.com/swdee/go-yellowplate/postprocess"
	"image"
	"testing"
	"time"
)

var (
	t0      = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	testBox = image.Rect(10, 10, 160, 70)
)

// at returns the time offset from t0 by the given seconds
func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func TestDisplayInitiallyInactive(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, postprocess.PlateLength)

	if s := d.Tick(t0); s.Active || s.Code != postprocess.Unrecognized {
		t.Errorf("expected inactive state, got %+v", s)
	}
}

func TestDisplayExpiresAfterTimeout(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, postprocess.PlateLength)

	if !d.Confirm("AB1234", testBox, at(0)) {
		t.Fatalf("valid code was rejected")
	}

	tests := []struct {
		seconds float64
		active  bool
	}{
		{0, true},
		{10, true},
		{29.9, true},
		{30, true},
		{30.1, false},
		{45, false},
	}

	for _, tc := range tests {
		s := d.Tick(at(tc.seconds))

		if s.Active != tc.active {
			t.Errorf("t=%.1fs: expected active=%v, got %v", tc.seconds, tc.active, s.Active)
		}

		if s.Active && s.Code != "AB1234" {
			t.Errorf("t=%.1fs: expected code AB1234, got %q", tc.seconds, s.Code)
		}

		if !s.Active && (s.Code != postprocess.Unrecognized || !s.StartedAt.IsZero()) {
			t.Errorf("t=%.1fs: inactive state not cleared: %+v", tc.seconds, s)
		}
	}
}

func TestDisplayRepeatedConfirmationResetsTimer(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, postprocess.PlateLength)

	d.Confirm("AB1234", testBox, at(0))
	d.Tick(at(20))
	d.Confirm("AB1234", testBox, at(20))

	if s := d.Tick(at(45)); !s.Active {
		t.Errorf("expected active 25s after second confirmation")
	}

	if s := d.State(); !s.StartedAt.Equal(at(20)) {
		t.Errorf("expected timer to restart at 20s, got %v", s.StartedAt.Sub(t0))
	}

	if s := d.Tick(at(50.1)); s.Active {
		t.Errorf("expected inactive 30.1s after last confirmation")
	}
}

func TestDisplayDifferentCodeReplaces(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, postprocess.PlateLength)

	d.Confirm("AB1234", testBox, at(0))
	d.Tick(at(0))

	box2 := image.Rect(200, 200, 360, 270)
	d.Confirm("XY9876", box2, at(1))
	s := d.Tick(at(1))

	if s.Code != "XY9876" || !s.StartedAt.Equal(at(1)) || s.Box != box2 {
		t.Errorf("expected most recent confirmation to be displayed, got %+v", s)
	}
}

func TestDisplayIgnoresInvalidCodes(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, postprocess.PlateLength)

	for _, code := range []postprocess.PlateCode{postprocess.Unrecognized, "AB123", "AB12345", "AB 123"} {
		if d.Confirm(code, testBox, at(0)) {
			t.Errorf("invalid code %q was accepted", code)
		}
	}

	if d.Tick(at(0)).Active {
		t.Errorf("invalid codes activated the display")
	}

	d.Confirm("AB1234", testBox, at(5))
	d.Confirm(postprocess.Unrecognized, testBox, at(10))

	if s := d.Tick(at(10)); s.Code != "AB1234" || !s.StartedAt.Equal(at(5)) {
		t.Errorf("sentinel changed the active state: %+v", s)
	}
}

func TestDisplayReset(t *testing.T) {

	d := NewDisplay(0, 0)

	if d.Timeout() != DefaultDisplayTimeout {
		t.Errorf("expected default timeout, got %v", d.Timeout())
	}

	d.Confirm("AB1234", testBox, at(0))
	d.Reset()

	if d.State().Active {
		t.Errorf("expected inactive after reset")
	}
}

func TestStateElapsed(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, postprocess.PlateLength)

	if e := d.State().Elapsed(at(3)); e != 0 {
		t.Errorf("inactive state elapsed should be 0, got %v", e)
	}

	d.Confirm("AB1234", testBox, at(1))

	if e := d.State().Elapsed(at(3)); e != 2*time.Second {
		t.Errorf("expected 2s elapsed, got %v", e)
	}
}

func TestDisplayPlateLength(t *testing.T) {

	d := NewDisplay(DefaultDisplayTimeout, 7)

	if d.Confirm("AB1234", testBox, at(0)) {
		t.Errorf("six character code accepted by seven character display")
	}

	if !d.Confirm("ABC1234", testBox, at(1)) {
		t.Fatalf("seven character code was rejected")
	}

	if s := d.Tick(at(1)); !s.Active || s.Code != "ABC1234" {
		t.Errorf("expected ABC1234 displayed, got %+v", s)
	}
}
