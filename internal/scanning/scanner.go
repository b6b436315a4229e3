// Package scanning extracts passport data from document images. An MRZ
// scanner reads the machine readable zone from OCR text, a structured
// extraction service serves as fallback, and Pipeline tries them in order.
package scanning

import (
	"context"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
)

// Methods reported for the scanner that produced a result
const (
	MethodPrimary   = "primary"
	MethodSecondary = "secondary"
)

// Document is an uploaded passport page
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Scanner defines a passport data extraction strategy
type Scanner interface {
	// Name identifies the provider in logs, metrics and audit records
	Name() string
	// Method is MethodPrimary or MethodSecondary
	Method() string
	// Configured reports whether the provider has the credentials it needs
	Configured() bool
	// Extract reads passport data from the document
	Extract(ctx context.Context, doc Document) (*passport.Data, error)
	// Close closes the scanner and releases resources
	Close() error
}

// Recognizer is an OCR engine that turns a PNG image into text
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (string, error)
	Close() error
}

// restrictedRecognizer is a Recognizer that can limit output to a character
// set, used for a second pass over the MRZ alphabet.
type restrictedRecognizer interface {
	RecognizeRestricted(ctx context.Context, png []byte, charset string) (string, error)
}
