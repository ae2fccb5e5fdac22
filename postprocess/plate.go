package postprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlateLength is the exact number of characters on a yellow plate
const PlateLength = 6

// PlateCode is the alphanumeric code read from a license plate
type PlateCode string

// Unrecognized is returned when the text read from a plate region could not be
// confidently turned into a PlateCode.  It is not an error.
const Unrecognized PlateCode = ""

// Valid reports whether the code is made of exactly length letters, digits
// or hyphens
func (p PlateCode) Valid(length int) bool {

	if utf8.RuneCountInString(string(p)) != length {
		return false
	}

	for _, r := range string(p) {
		if !isPlateRune(r) {
			return false
		}
	}

	return true
}

// String returns the plate code text
func (p PlateCode) String() string {
	return string(p)
}

// FilterPlateText keeps only letters, digits and hyphens from the raw OCR
// output.  If the filtered text is exactly length characters long it is
// returned as a PlateCode, otherwise Unrecognized is returned, never a
// partial code.
func FilterPlateText(raw string, length int) PlateCode {

	var b strings.Builder

	for _, r := range raw {
		if isPlateRune(r) {
			b.WriteRune(r)
		}
	}

	text := strings.TrimSpace(b.String())

	if utf8.RuneCountInString(text) != length {
		return Unrecognized
	}

	return PlateCode(text)
}

// isPlateRune reports whether the rune may appear on a plate
func isPlateRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}
