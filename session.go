package yellowplate

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-yellowplate/render"
	"gocv.io/x/gocv"
	"time"
)

// ErrCaptureFailed is returned by Session.Run when the camera fails to
// provide a frame
var ErrCaptureFailed = errors.New("error capturing frame")

// Camera is a source of video frames
type Camera interface {
	// Read reads the next frame into frame, returning false on failure
	Read(frame *gocv.Mat) bool
	// Close releases the capture device
	Close() error
}

// Display presents annotated frames and reports when the user asks to stop
type Display interface {
	Show(frame gocv.Mat)
	// StopRequested reports whether a stop was requested since the last
	// frame was shown
	StopRequested() bool
	Close() error
}

// PlateSaver persists the image of a recognized plate
type PlateSaver interface {
	// Save writes the plate image and returns where it was written
	Save(code string, img gocv.Mat, at time.Time) (string, error)
}

// Session drives the frame loop of a single camera: read a frame, run it
// through the Detector, persist and report recognized plates, annotate and
// show the frame, then check for a stop request
type Session struct {
	id        string
	camera    Camera
	detector  *Detector
	saver     PlateSaver
	display   Display
	annotator *render.Annotator
	logger    *logrus.Logger
	metrics   *Metrics
	stats     *FrameStats
	// statsEvery is the number of frames between stats log entries, zero
	// disables periodic stats
	statsEvery int
	now        func() time.Time
}

// SessionOption configures optional Session settings
type SessionOption func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *logrus.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics the session and its detector record to
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithAnnotator sets the frame annotator
func WithAnnotator(a *render.Annotator) SessionOption {
	return func(s *Session) {
		s.annotator = a
	}
}

// WithClock sets the time source, used by tests
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithStatsInterval logs frame statistics every n frames
func WithStatsInterval(n int) SessionOption {
	return func(s *Session) {
		s.statsEvery = n
	}
}

// NewSession returns a Session reading from camera.  The session takes
// ownership of the camera and display, both are closed when Run returns.
func NewSession(camera Camera, detector *Detector, saver PlateSaver,
	display Display, opts ...SessionOption) *Session {

	s := &Session{
		id:         uuid.NewString(),
		camera:     camera,
		detector:   detector,
		saver:      saver,
		display:    display,
		annotator:  render.NewAnnotator(),
		logger:     logrus.StandardLogger(),
		stats:      NewFrameStats(300),
		statsEvery: 300,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if display == nil {
		s.display = NullDisplay{}
	}

	s.detector.SetLogger(s.logger)

	if s.metrics != nil {
		s.detector.SetMetrics(s.metrics)
	}

	return s
}

// ID returns the unique session id
func (s *Session) ID() string {
	return s.id
}

// Stats returns the frame statistics collected so far
func (s *Session) Stats() StatsSummary {
	return s.stats.Summary()
}

// Run processes frames until the display requests a stop, the context is
// cancelled or the camera fails.  A camera failure returns ErrCaptureFailed,
// a stop request returns nil and cancellation returns the context error.  The
// camera and display are closed on every return path.
func (s *Session) Run(ctx context.Context) error {

	log := s.logger.WithField("session", s.id)

	defer func() {
		if err := s.camera.Close(); err != nil {
			log.WithError(err).Warn("error closing camera")
		}

		if err := s.display.Close(); err != nil {
			log.WithError(err).Warn("error closing display")
		}

		log.WithField("stats", s.stats.Summary().String()).Info("session ended")
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	log.Info("session started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if ok := s.camera.Read(&frame); !ok {
			s.metrics.captureFailed()
			log.Error("error capturing frame")
			return ErrCaptureFailed
		}

		s.processFrame(&frame, log)

		if s.display.StopRequested() {
			log.Info("stop requested")
			return nil
		}
	}
}

// processFrame runs detection on the frame, persists new plates, annotates
// the frame and hands it to the display
func (s *Session) processFrame(frame *gocv.Mat, log *logrus.Entry) {

	start := s.now()

	act := s.detector.Tick(*frame, start)
	defer act.Close()

	for _, rec := range act.Recognitions {

		fields := logrus.Fields{
			"code": rec.Code.String(),
			"box":  rec.Box.String(),
		}

		file, err := s.saver.Save(rec.Code.String(), rec.Image, rec.At)

		if err != nil {
			s.metrics.saveFailed()
			log.WithFields(fields).WithError(err).Error("error saving plate image")
		} else {
			fields["file"] = file
		}

		log.WithFields(fields).Info("plate detected")
	}

	err := s.annotator.Annotate(frame, act.Candidates, act.State)

	if err != nil {
		log.WithError(err).Warn("error annotating frame")
	}

	s.display.Show(*frame)

	elapsed := s.now().Sub(start)
	s.stats.Add(elapsed)
	s.metrics.observe(elapsed.Seconds())

	if s.statsEvery > 0 && s.stats.Count()%s.statsEvery == 0 {
		log.WithField("stats", s.stats.Summary().String()).Info("frame statistics")
	}
}
