package scanning

import (
	"context"
	"log/slog"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/mrz"
	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
)

// mrzCharset restricts the second OCR pass to the MRZ alphabet
const mrzCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"

// MRZScanner reads passport data from the machine readable zone in OCR text
type MRZScanner struct {
	recognizer Recognizer
	enhance    bool
}

// NewMRZScanner creates an MRZ scanner. A nil recognizer leaves the scanner
// unconfigured.
func NewMRZScanner(recognizer Recognizer, enhance bool) *MRZScanner {
	return &MRZScanner{recognizer: recognizer, enhance: enhance}
}

func (s *MRZScanner) Name() string {
	if s.recognizer == nil {
		return "mrz"
	}
	return "mrz-" + s.recognizer.Name()
}

func (s *MRZScanner) Method() string { return MethodPrimary }

func (s *MRZScanner) Configured() bool { return s.recognizer != nil }

// Extract recognizes the page, locates and parses the MRZ, and looks for a
// labeled date of issue in the rest of the text.
func (s *MRZScanner) Extract(ctx context.Context, doc Document) (*passport.Data, error) {
	img, err := prepareImageData(doc, s.enhance)
	if err != nil {
		return nil, noResult(s.Name(), "preparing image", err)
	}

	text, err := s.recognizer.Recognize(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewProviderError(ErrorInternal, s.Name(), "recognition canceled", ctx.Err())
		}
		return nil, noResult(s.Name(), "recognizing text", err)
	}

	pair, found := mrz.FindLines(text)
	if !found {
		pair, found = s.restrictedPass(ctx, img)
	}
	if !found {
		return nil, noResult(s.Name(), "no MRZ found", nil)
	}

	res, err := mrz.Parse(pair.Line1, pair.Line2)
	if err != nil {
		return nil, noResult(s.Name(), "parsing MRZ", err)
	}
	if !res.Valid && !res.HasFields() {
		return nil, noResult(s.Name(), "MRZ has no readable fields", nil)
	}

	slog.Debug("MRZ parsed", "scanner", s.Name(), "valid", res.Valid, "checks", len(res.Details))

	data := passport.FromMRZ(res.Fields)
	data.DateOfIssue = passport.ExtractDateOfIssue(text)
	return data, nil
}

// restrictedPass retries recognition limited to the MRZ alphabet when the
// engine supports it.
func (s *MRZScanner) restrictedPass(ctx context.Context, img []byte) (mrz.LinePair, bool) {
	rr, ok := s.recognizer.(restrictedRecognizer)
	if !ok {
		return mrz.LinePair{}, false
	}

	slog.Debug("No MRZ in first pass, retrying with MRZ charset", "scanner", s.Name())
	text, err := rr.RecognizeRestricted(ctx, img, mrzCharset)
	if err != nil {
		slog.Warn("Restricted OCR pass failed", "scanner", s.Name(), "error", err)
		return mrz.LinePair{}, false
	}
	return mrz.FindLines(text)
}

// Close closes the underlying recognizer
func (s *MRZScanner) Close() error {
	if s.recognizer == nil {
		return nil
	}
	return s.recognizer.Close()
}
