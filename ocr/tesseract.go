package ocr

import (
	"fmt"
	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
	"sync"
)

// TesseractParams defines the settings for the Tesseract OCR engine
type TesseractParams struct {
	// Language is the trained data language to use, eg: "eng"
	Language string `yaml:"language" validate:"required"`
	// Whitelist restricts recognition to the given characters, leave empty
	// to allow all characters
	Whitelist string `yaml:"whitelist"`
	// TessdataPrefix is the directory containing the trained data files,
	// leave empty to use the Tesseract default
	TessdataPrefix string `yaml:"tessdataPrefix"`
}

// DefaultTesseractParams returns the settings for reading yellow plates
func DefaultTesseractParams() TesseractParams {
	return TesseractParams{
		Language:  "eng",
		Whitelist: "",
	}
}

// Tesseract is a TextRecognizer using the Tesseract OCR engine configured to
// treat the image as a single word
type Tesseract struct {
	client *gosseract.Client
	// mu guards client as gosseract clients are not safe for concurrent use
	mu    sync.Mutex
	close sync.Once
}

// NewTesseract returns a Tesseract recognizer instance
func NewTesseract(p TesseractParams) (*Tesseract, error) {

	client := gosseract.NewClient()

	if p.TessdataPrefix != "" {
		client.TessdataPrefix = p.TessdataPrefix
	}

	err := client.SetLanguage(p.Language)

	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error setting OCR language: %w", err)
	}

	// equivalent of tesseract --psm 8
	err = client.SetPageSegMode(gosseract.PSM_SINGLE_WORD)

	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error setting OCR page segmentation mode: %w", err)
	}

	if p.Whitelist != "" {
		err = client.SetWhitelist(p.Whitelist)

		if err != nil {
			client.Close()
			return nil, fmt.Errorf("error setting OCR whitelist: %w", err)
		}
	}

	return &Tesseract{
		client: client,
	}, nil
}

// Recognize encodes the image as PNG and returns the text Tesseract reads
// from it
func (t *Tesseract) Recognize(img gocv.Mat) (string, error) {

	if img.Empty() {
		return "", nil
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)

	if err != nil {
		return "", fmt.Errorf("error encoding image for OCR: %w", err)
	}

	defer buf.Close()

	t.mu.Lock()
	defer t.mu.Unlock()

	err = t.client.SetImageFromBytes(buf.GetBytes())

	if err != nil {
		return "", fmt.Errorf("error passing image to OCR: %w", err)
	}

	text, err := t.client.Text()

	if err != nil {
		return "", fmt.Errorf("OCR text extraction failed: %w", err)
	}

	return text, nil
}

// Close releases the Tesseract engine
func (t *Tesseract) Close() error {

	var err error

	t.close.Do(func() {
		err = t.client.Close()
	})

	return err
}
