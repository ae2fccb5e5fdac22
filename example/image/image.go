/*
Example code showing how to read a yellow license plate from a still image
and save the annotated result
*/
package main

import (
	"flag"
	"fmt"
	"github.com/swdee/go-yellowplate"
	"github.com/swdee/go-yellowplate/internal/log"
	"github.com/swdee/go-yellowplate/ocr"
	"github.com/swdee/go-yellowplate/render"
	"gocv.io/x/gocv"
	"os"
	"time"
)

func main() {

	imgFile := flag.String("i", "", "Image file to read plates from")
	saveFile := flag.String("o", "out.jpg", "The output JPG file with plate annotations")
	configFile := flag.String("c", "", "YAML config file, defaults are used when not given")
	whitelist := flag.String("w", "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-", "Characters Tesseract may recognize")

	flag.Parse()

	if *imgFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := yellowplate.DefaultConfig()

	if *configFile != "" {
		var err error
		cfg, err = yellowplate.LoadConfig(*configFile)

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if cfg.OCR.Whitelist == "" {
		cfg.OCR.Whitelist = *whitelist
	}

	logger, err := log.New(cfg.Log)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	tess, err := ocr.NewTesseract(cfg.OCR)

	if err != nil {
		logger.WithError(err).Fatal("error initializing tesseract")
	}

	defer tess.Close()

	detector := yellowplate.NewDetector(cfg.Detector, tess)
	detector.SetLogger(logger)
	defer detector.Close()

	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		logger.WithField("file", *imgFile).Fatal("error reading image")
	}

	defer img.Close()

	start := time.Now()
	act := detector.Tick(img, start)
	defer act.Close()

	elapsed := time.Since(start)

	for _, rec := range act.Recognitions {
		fmt.Printf("plate %s @ (%d %d %d %d)\n", rec.Code, rec.Box.Min.X,
			rec.Box.Min.Y, rec.Box.Max.X, rec.Box.Max.Y)
	}

	if act.Confirmed == nil {
		fmt.Printf("no plate recognized from %d candidate regions\n", len(act.Candidates))
	}

	err = render.NewAnnotator().Annotate(&img, act.Candidates, act.State)

	if err != nil {
		logger.WithError(err).Fatal("error annotating image")
	}

	if !gocv.IMWrite(*saveFile, img) {
		logger.WithField("file", *saveFile).Fatal("error writing annotated image")
	}

	fmt.Printf("Saved annotated image to %s\n", *saveFile)
	fmt.Printf("Detection time: %dms\n", elapsed.Milliseconds())
}
