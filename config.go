package yellowplate

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/swdee/go-yellowplate/internal/log"
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/storage"
	"gopkg.in/yaml.v3"
	"os"
)

// Config contains the settings for a plate reading session
type Config struct {
	Camera   CameraConfig        `yaml:"camera"`
	Detector DetectorParams      `yaml:"detector"`
	OCR      ocr.TesseractParams `yaml:"ocr"`
	// OutputDir is the directory plate images are saved to
	OutputDir string      `yaml:"outputDir" validate:"required"`
	Log       log.Options `yaml:"log"`
	// MetricsAddr is the address to serve Prometheus metrics on, eg:
	// "localhost:9090".  Leave empty to disable.
	MetricsAddr string `yaml:"metricsAddr"`
	// FontFile is an optional TTF font used for the overlay text
	FontFile string `yaml:"fontFile"`
}

// CameraConfig contains the capture and display settings
type CameraConfig struct {
	// Device is the video capture device number
	Device int `yaml:"device" validate:"gte=0"`
	// Window is the title of the display window
	Window string `yaml:"window"`
	// StopKey is the key that ends the session
	StopKey string `yaml:"stopKey" validate:"len=1"`
	// Headless disables the display window
	Headless bool `yaml:"headless"`
}

// DefaultConfig returns the settings for reading yellow plates from the first
// camera device
func DefaultConfig() Config {
	return Config{
		Camera: CameraConfig{
			Device:  0,
			Window:  "Camera with Plate Recognition",
			StopKey: "q",
		},
		Detector:  YellowPlateParams(),
		OCR:       ocr.DefaultTesseractParams(),
		OutputDir: storage.DefaultDir,
		Log:       log.DefaultOptions(),
	}
}

// LoadConfig reads the YAML config file over the default settings and
// validates the result
func LoadConfig(file string) (Config, error) {

	cfg := DefaultConfig()

	data, err := os.ReadFile(file)

	if err != nil {
		return cfg, fmt.Errorf("config read error: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg)

	if err != nil {
		return cfg, fmt.Errorf("config parse error: %w", err)
	}

	err = cfg.Validate()

	if err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the config values are usable
func (c Config) Validate() error {

	err := validator.New().Struct(c)

	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	d := c.Detector

	if d.Binarize.BlockSize%2 == 0 {
		return errors.New("invalid config: detector.binarize.blockSize must be odd")
	}

	lo, hi := d.Color.Low, d.Color.High

	if lo.H > hi.H || lo.S > hi.S || lo.V > hi.V {
		return errors.New("invalid config: detector.color low bound exceeds high bound")
	}

	return nil
}
