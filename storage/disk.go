/*
Package storage persists images of recognized plates.
*/
package storage

import (
	"fmt"
	"gocv.io/x/gocv"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultDir is the default output directory for plate images
	DefaultDir = "capturas_placas"
	// timestampLayout formats the capture time as YYYYMMDD-HHMMSS
	timestampLayout = "20060102-150405"
)

// DiskSaver writes plate images as PNG files into a directory
type DiskSaver struct {
	dir string
}

// NewDiskSaver returns a DiskSaver writing to dir, the directory is created
// if it does not exist
func NewDiskSaver(dir string) (*DiskSaver, error) {

	err := os.MkdirAll(dir, 0o755)

	if err != nil {
		return nil, fmt.Errorf("error creating output directory %s: %w", dir, err)
	}

	info, err := os.Stat(dir)

	if err != nil {
		return nil, fmt.Errorf("error reading output directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", dir)
	}

	return &DiskSaver{
		dir: dir,
	}, nil
}

// Dir returns the output directory
func (s *DiskSaver) Dir() string {
	return s.dir
}

// FileName returns the path an image of the plate code captured at the given
// time is saved to, {dir}/placa_{code}_{YYYYMMDD-HHMMSS}.png
func (s *DiskSaver) FileName(code string, at time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("placa_%s_%s.png", code, at.Format(timestampLayout)))
}

// Save writes the plate image to disk and returns the file path
func (s *DiskSaver) Save(code string, img gocv.Mat, at time.Time) (string, error) {

	if img.Empty() {
		return "", fmt.Errorf("plate image for %s is empty", code)
	}

	file := s.FileName(code, at)

	if ok := gocv.IMWrite(file, img); !ok {
		return "", fmt.Errorf("failed to write plate image %s", file)
	}

	return file, nil
}
