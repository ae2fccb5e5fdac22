package tracker

import (
	"github.com/swdee/go-yellowplate/postprocess"
	"image"
	"sync"
	"time"
)

// DefaultDisplayTimeout is how long a confirmed plate remains displayed
// without a fresh confirmation
const DefaultDisplayTimeout = 30 * time.Second

// State is the plate currently being displayed
type State struct {
	// Active is true whilst a confirmed plate is being displayed
	Active bool
	// Code is the displayed plate code, empty when inactive
	Code postprocess.PlateCode
	// StartedAt is the time of the most recent confirmation, zero when
	// inactive
	StartedAt time.Time
	// Box is the frame region the plate was confirmed in
	Box image.Rectangle
}

// Elapsed returns the time since the plate was last confirmed
func (s State) Elapsed(now time.Time) time.Duration {

	if !s.Active {
		return 0
	}

	return now.Sub(s.StartedAt)
}

// Display tracks which plate is shown.  It has two states, inactive and
// active(code, startedAt).  Any valid confirmation makes it active and
// restarts the timer, it returns to inactive once more than the timeout has
// passed since the last confirmation.
type Display struct {
	// timeout is the display window
	timeout time.Duration
	// length is the number of characters a confirmed code must have
	length int
	state  State
	sync.Mutex
}

// NewDisplay returns a Display in the inactive state accepting plate codes of
// the given length.  A timeout of zero or less uses DefaultDisplayTimeout and a
// length of zero or less uses postprocess.PlateLength.
func NewDisplay(timeout time.Duration, length int) *Display {

	if timeout <= 0 {
		timeout = DefaultDisplayTimeout
	}

	if length <= 0 {
		length = postprocess.PlateLength
	}

	return &Display{
		timeout: timeout,
		length:  length,
	}
}

// Timeout returns the display window duration
func (d *Display) Timeout() time.Duration {
	return d.timeout
}

// Confirm records a newly recognized plate at time now, replacing any
// displayed code and restarting the timer.  Invalid codes, including the
// Unrecognized sentinel, leave the state unchanged and return false.
func (d *Display) Confirm(code postprocess.PlateCode, box image.Rectangle, now time.Time) bool {

	if !code.Valid(d.length) {
		return false
	}

	d.Lock()
	defer d.Unlock()

	d.state = State{
		Active:    true,
		Code:      code,
		StartedAt: now,
		Box:       box,
	}

	return true
}

// Tick expires the displayed plate if more than the timeout has elapsed since
// it was confirmed and returns the resulting state
func (d *Display) Tick(now time.Time) State {
	d.Lock()
	defer d.Unlock()

	if d.state.Active && now.Sub(d.state.StartedAt) > d.timeout {
		d.state = State{}
	}

	return d.state
}

// State returns the current display state without advancing time
func (d *Display) State() State {
	d.Lock()
	defer d.Unlock()

	return d.state
}

// Reset clears the displayed plate
func (d *Display) Reset() {
	d.Lock()
	defer d.Unlock()

	d.state = State{}
}
