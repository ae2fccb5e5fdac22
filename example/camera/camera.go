/*
Example code showing how to read yellow license plates from a live camera
feed using color segmentation and Tesseract OCR
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-yellowplate"
	"github.com/swdee/go-yellowplate/internal/log"
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/render"
	"github.com/swdee/go-yellowplate/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	// TTFFontSize is the point size of the overlay text when a TTF font is
	// used
	TTFFontSize = 28
)

func main() {

	// an optional .env file may set YELLOWPLATE_CONFIG and TESSDATA_PREFIX
	_ = godotenv.Load()

	configFile := flag.String("c", os.Getenv("YELLOWPLATE_CONFIG"), "YAML config file, defaults are used when not given")
	device := flag.Int("d", -1, "Camera device number, overrides config")
	outDir := flag.String("o", "", "Directory to save plate images to, overrides config")
	headless := flag.Bool("headless", false, "Run without a display window")
	metricsAddr := flag.String("m", "", "Address to serve Prometheus metrics on, eg: localhost:9090")
	fontFile := flag.String("f", "", "TTF font file used for the overlay text")
	logLevel := flag.String("l", "", "Log level, eg: debug")

	flag.Parse()

	cfg := yellowplate.DefaultConfig()

	if *configFile != "" {
		var err error
		cfg, err = yellowplate.LoadConfig(*configFile)

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// apply command line overrides
	if *device >= 0 {
		cfg.Camera.Device = *device
	}

	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	if *headless {
		cfg.Camera.Headless = true
	}

	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if *fontFile != "" {
		cfg.FontFile = *fontFile
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if cfg.OCR.TessdataPrefix == "" {
		cfg.OCR.TessdataPrefix = os.Getenv("TESSDATA_PREFIX")
	}

	err := cfg.Validate()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := log.New(cfg.Log)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg, logger)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("plate reader stopped")
	}
}

// run opens the camera, OCR engine and output directory then processes
// frames until stopped
func run(cfg yellowplate.Config, logger *logrus.Logger) error {

	tess, err := ocr.NewTesseract(cfg.OCR)

	if err != nil {
		return fmt.Errorf("error initializing tesseract: %w", err)
	}

	defer tess.Close()

	saver, err := storage.NewDiskSaver(cfg.OutputDir)

	if err != nil {
		return err
	}

	detector := yellowplate.NewDetector(cfg.Detector, tess)
	defer detector.Close()

	opts := []yellowplate.SessionOption{
		yellowplate.WithLogger(logger),
	}

	if cfg.FontFile != "" {
		ttf, err := render.NewTTFFont(cfg.FontFile, TTFFontSize, render.Blue)

		if err != nil {
			return fmt.Errorf("error initializing font face: %w", err)
		}

		defer ttf.Close()

		annotator := render.NewAnnotator()
		annotator.Text = ttf
		opts = append(opts, yellowplate.WithAnnotator(annotator))
	}

	if cfg.MetricsAddr != "" {
		metrics := yellowplate.NewMetrics()
		opts = append(opts, yellowplate.WithMetrics(metrics))

		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.WithField("addr", cfg.MetricsAddr).Info("serving metrics")

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics server failed")
			}
		}()

		defer srv.Close()
	}

	camera, err := yellowplate.OpenCamera(cfg.Camera.Device)

	if err != nil {
		return err
	}

	var display yellowplate.Display

	if !cfg.Camera.Headless {
		display = yellowplate.OpenWindow(cfg.Camera.Window, rune(cfg.Camera.StopKey[0]))
	}

	session := yellowplate.NewSession(camera, detector, saver, display, opts...)

	logger.WithFields(log.Fields{
		"session": session.ID(),
		"device":  cfg.Camera.Device,
		"output":  saver.Dir(),
		"stopKey": cfg.Camera.StopKey,
	}).Info("reading plates, press the stop key in the window or Ctrl-C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return session.Run(ctx)
}

// metricsMux returns the HTTP handler serving the metrics endpoint
func metricsMux(m *yellowplate.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
