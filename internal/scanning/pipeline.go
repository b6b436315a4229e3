package scanning

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
)

// Outcome classifies a single provider attempt
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeNoResult  Outcome = "no-result"
	OutcomeTransient Outcome = "transient-error"
	OutcomeFatal     Outcome = "fatal-error"
)

// Attempt records one provider call made while scanning a document
type Attempt struct {
	Provider string        `json:"provider"`
	Method   string        `json:"method"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Result is the outcome of a pipeline scan. Method names the last scanner
// attempted, whether or not it succeeded.
type Result struct {
	Data     *passport.Data
	Method   string
	Attempts []Attempt
}

// Observer receives pipeline measurements
type Observer interface {
	ObserveAttempt(provider string, outcome Outcome, d time.Duration)
	ObserveScan(method string, success bool, d time.Duration)
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, Outcome, time.Duration) {}
func (nopObserver) ObserveScan(string, bool, time.Duration)       {}

// Pipeline tries scanners in order until one produces usable passport data
type Pipeline struct {
	scanners   []Scanner
	observer   Observer
	timeSource TimeSource
}

// NewPipeline creates a pipeline over scanners, tried in the given order
func NewPipeline(scanners ...Scanner) *Pipeline {
	return NewPipelineWithDeps(nil, defaultTimeSource{}, scanners...)
}

// NewPipelineWithDeps creates a pipeline with a custom observer and time source
func NewPipelineWithDeps(observer Observer, timeSource TimeSource, scanners ...Scanner) *Pipeline {
	if observer == nil {
		observer = nopObserver{}
	}
	if timeSource == nil {
		timeSource = defaultTimeSource{}
	}
	return &Pipeline{
		scanners:   scanners,
		observer:   observer,
		timeSource: timeSource,
	}
}

// Configured reports whether any scanner can run
func (p *Pipeline) Configured() bool {
	for _, s := range p.scanners {
		if s.Configured() {
			return true
		}
	}
	return false
}

// Scan extracts passport data from doc. Unconfigured scanners are skipped and
// any failure moves on to the next scanner. When every scanner fails, the
// last scanner's error is returned; ErrNotConfigured is returned when none
// could run. The returned Result is never nil.
func (p *Pipeline) Scan(ctx context.Context, doc Document) (*Result, error) {
	start := p.timeSource.Now()
	result := &Result{}
	var lastErr error

	for _, s := range p.scanners {
		if !s.Configured() {
			slog.Debug("Skipping unconfigured scanner", "scanner", s.Name())
			continue
		}

		attemptStart := p.timeSource.Now()
		data, err := s.Extract(ctx, doc)
		if err == nil && !data.HasRequired() {
			err = noResult(s.Name(), "no required fields", nil)
		}

		attempt := Attempt{
			Provider: s.Name(),
			Method:   s.Method(),
			Duration: p.timeSource.Now().Sub(attemptStart),
		}
		result.Method = s.Method()

		if err != nil {
			attempt.Outcome = classify(err)
			attempt.Error = err.Error()
			result.Attempts = append(result.Attempts, attempt)
			p.observer.ObserveAttempt(attempt.Provider, attempt.Outcome, attempt.Duration)
			slog.Info("Scanner failed", "scanner", s.Name(), "outcome", attempt.Outcome, "error", err)

			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		attempt.Outcome = OutcomeSuccess
		result.Attempts = append(result.Attempts, attempt)
		p.observer.ObserveAttempt(attempt.Provider, attempt.Outcome, attempt.Duration)

		result.Data = data
		p.observer.ObserveScan(result.Method, true, p.timeSource.Now().Sub(start))
		return result, nil
	}

	if lastErr == nil {
		lastErr = ErrNotConfigured
	}
	p.observer.ObserveScan(result.Method, false, p.timeSource.Now().Sub(start))
	return result, lastErr
}

// classify maps an error to an attempt outcome
func classify(err error) Outcome {
	switch {
	case errors.Is(err, ErrTimeout):
		return OutcomeTransient
	case errors.Is(err, ErrNoResult):
		return OutcomeNoResult
	}
	if GetCategory(err) == ErrorProviderOutage {
		return OutcomeTransient
	}
	return OutcomeFatal
}

// Close closes every scanner and returns the first error
func (p *Pipeline) Close() error {
	var first error
	for _, s := range p.scanners {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
