package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with a local Tesseract installation
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseract creates a Tesseract recognizer for the given languages
func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{languages: languages, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize runs a full-text pass over the image
func (t *Tesseract) Recognize(ctx context.Context, png []byte) (string, error) {
	return t.recognize(ctx, png, "")
}

// RecognizeRestricted runs a pass whose output is limited to charset
func (t *Tesseract) RecognizeRestricted(ctx context.Context, png []byte, charset string) (string, error) {
	return t.recognize(ctx, png, charset)
}

func (t *Tesseract) recognize(ctx context.Context, png []byte, whitelist string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if whitelist != "" {
		if err := c.SetWhitelist(whitelist); err != nil {
			return "", fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close is a no-op; a client is created per recognition
func (t *Tesseract) Close() error {
	return nil
}
