package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scanning"
)

// MaxFileSize is the largest accepted upload
const MaxFileSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

var contentTypesByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// ValidationError is an upload rejected before scanning. Message is safe to
// show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Scanner runs the extraction pipeline over a document
type Scanner interface {
	Scan(ctx context.Context, doc scanning.Document) (*scanning.Result, error)
	Configured() bool
}

// IDGenerator generates unique IDs for scan records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidGenerator issues version 7 UUIDs, which sort by creation time
type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service validates uploads, scans them and keeps an audit log of each scan
type Service struct {
	db          DB
	scanner     Scanner
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, scanner Scanner) *Service {
	return NewServiceWithDeps(db, scanner, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner Scanner, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Configured reports whether any scanning provider can run
func (s *Service) Configured() bool {
	return s.scanner.Configured()
}

// NormalizeContentType lowercases a declared content type, drops parameters
// and falls back to the file extension when the type is missing or generic.
func NormalizeContentType(contentType, filename string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	if ct == "" || ct == "application/octet-stream" {
		if byExt, ok := contentTypesByExt[strings.ToLower(filepath.Ext(filename))]; ok {
			return byExt
		}
	}
	return ct
}

// Validate checks an upload's content type and size
func Validate(contentType string, size int64) error {
	if !allowedContentTypes[contentType] {
		return &ValidationError{Message: "Invalid file type. Please upload a JPEG, PNG, WebP, or PDF file."}
	}
	if size > MaxFileSize {
		return &ValidationError{Message: "File too large. Maximum size is 10MB."}
	}
	if size == 0 {
		return &ValidationError{Message: "No file provided"}
	}
	return nil
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`).ReplaceAllString(base, "")
	base = regexp.MustCompile(`\s+`).ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "passport"
	}

	return base + ext
}

// Scan validates and scans an uploaded passport page. The audit record is
// saved whether or not the scan succeeds; failing to save it is only logged.
func (s *Service) Scan(ctx context.Context, filename string, data []byte, contentType string) (*scanning.Result, error) {
	contentType = NormalizeContentType(contentType, filename)
	if err := Validate(contentType, int64(len(data))); err != nil {
		return nil, err
	}

	start := s.timeSource.Now()
	result, err := s.scanner.Scan(ctx, scanning.Document{
		Data:        data,
		ContentType: contentType,
		Filename:    filename,
	})
	if result == nil {
		result = &scanning.Result{}
	}

	record := &Record{
		ID:          s.idGenerator.Generate(),
		Filename:    sanitizeFilename(filename),
		ContentType: contentType,
		Size:        int64(len(data)),
		Method:      result.Method,
		Success:     err == nil,
		ErrorKind:   errorKind(err),
		Attempts:    result.Attempts,
		CreatedAt:   start,
	}
	record.DurationMS = s.timeSource.Now().Sub(start).Milliseconds()

	if saveErr := s.db.SaveRecord(record); saveErr != nil {
		slog.Error("Failed to save scan record", "id", record.ID, "error", saveErr)
	}

	slog.Info("Passport scanned",
		"id", record.ID,
		"content_type", contentType,
		"size", record.Size,
		"method", record.Method,
		"success", record.Success,
		"attempts", len(record.Attempts),
	)

	if err != nil {
		return result, fmt.Errorf("scanning passport: %w", err)
	}
	return result, nil
}

// errorKind maps a pipeline error to the kind stored on its record
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, scanning.ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, scanning.ErrTimeout):
		return KindTimeout
	case errors.Is(err, scanning.ErrNoResult):
		return KindNoResult
	}
	return KindInternal
}

// GetRecord retrieves a scan record by ID
func (s *Service) GetRecord(id string) (*Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting scan record: %w", err)
	}
	return record, nil
}

// ListRecords returns the most recent scan records
func (s *Service) ListRecords(limit int) ([]*Record, error) {
	records, err := s.db.ListRecords(limit)
	if err != nil {
		return nil, fmt.Errorf("listing scan records: %w", err)
	}
	return records, nil
}
