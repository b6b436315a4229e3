package scan

import (
	"time"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scanning"
)

// Record is the audit entry kept for every scan. It never holds identity data.
type Record struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	ContentType string             `json:"content_type"`
	Size        int64              `json:"size"`
	Method      string             `json:"method,omitempty"`
	Success     bool               `json:"success"`
	ErrorKind   string             `json:"error_kind,omitempty"`
	Attempts    []scanning.Attempt `json:"attempts"`
	DurationMS  int64              `json:"duration_ms"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Error kinds stored on failed records
const (
	KindNotConfigured = "not_configured"
	KindNoResult      = "no_result"
	KindTimeout       = "timeout"
	KindInternal      = "internal"
)
