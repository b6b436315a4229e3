package scanning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
)

const (
	defaultMindeeURL       = "https://api-v2.mindee.net"
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollAttempts = 15
)

// MindeeConfig configures the Mindee structured extraction client
type MindeeConfig struct {
	APIKey          string
	BaseURL         string
	ModelID         string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// PollObserver receives the number of polls a finished job needed
type PollObserver interface {
	ObservePolls(provider string, attempts int)
}

// Mindee extracts passport fields with the Mindee v2 inference API. Jobs are
// enqueued, polled on a fixed interval and their result fetched once
// processed.
type Mindee struct {
	apiKey      string
	baseURL     string
	modelID     string
	interval    time.Duration
	maxAttempts int
	client      *http.Client
	observer    PollObserver
}

// NewMindee creates a Mindee scanner with a default HTTP client
func NewMindee(cfg MindeeConfig) *Mindee {
	return NewMindeeWithDeps(cfg, &http.Client{Timeout: 30 * time.Second}, nil)
}

// NewMindeeWithDeps creates a Mindee scanner with a custom HTTP client and
// poll observer. The client is copied so redirects can be disabled; a nil
// client gets the NewMindee default.
func NewMindeeWithDeps(cfg MindeeConfig, client *http.Client, observer PollObserver) *Mindee {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultMindeeURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = defaultMaxPollAttempts
	}

	c := *client
	// A redirect from the polling URL is the completion signal
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Mindee{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		modelID:     cfg.ModelID,
		interval:    cfg.PollInterval,
		maxAttempts: cfg.MaxPollAttempts,
		client:      &c,
		observer:    observer,
	}
}

func (m *Mindee) Name() string { return "mindee" }

func (m *Mindee) Method() string { return MethodSecondary }

func (m *Mindee) Configured() bool { return m.apiKey != "" && m.modelID != "" }

// jobState is the lifecycle of an enqueued inference
type jobState int

const (
	jobPending jobState = iota
	jobProcessed
	jobFailed
)

type mindeeJob struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PollingURL string `json:"polling_url"`
	ResultURL  string `json:"result_url"`
}

// mindeeJobResponse covers both the wrapped and the flat job payloads
type mindeeJobResponse struct {
	Job        *mindeeJob `json:"job"`
	Status     string     `json:"status"`
	PollingURL string     `json:"polling_url"`
	ResultURL  string     `json:"result_url"`
}

func (r mindeeJobResponse) status() string {
	if r.Job != nil && r.Job.Status != "" {
		return r.Job.Status
	}
	return r.Status
}

func (r mindeeJobResponse) pollingURL() string {
	if r.Job != nil && r.Job.PollingURL != "" {
		return r.Job.PollingURL
	}
	return r.PollingURL
}

func (r mindeeJobResponse) resultURL() string {
	if r.Job != nil && r.Job.ResultURL != "" {
		return r.Job.ResultURL
	}
	return r.ResultURL
}

// Extract enqueues the document, waits for the job and normalizes its fields
func (m *Mindee) Extract(ctx context.Context, doc Document) (*passport.Data, error) {
	pollingURL, err := m.enqueue(ctx, doc)
	if err != nil {
		return nil, err
	}

	resultURL, err := m.waitForResult(ctx, pollingURL)
	if err != nil {
		return nil, err
	}

	fields, err := m.fetchResult(ctx, resultURL)
	if err != nil {
		return nil, err
	}

	data := passport.FromFields(fields)
	if !data.HasRequired() {
		return nil, noResult(m.Name(), "no required fields in result", nil)
	}
	return data, nil
}

func (m *Mindee) enqueue(ctx context.Context, doc Document) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	filename := doc.Filename
	if filename == "" {
		filename = "passport"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", doc.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", NewProviderError(ErrorInternal, m.Name(), "creating form file", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return "", NewProviderError(ErrorInternal, m.Name(), "writing form file", err)
	}
	if err := w.WriteField("model_id", m.modelID); err != nil {
		return "", NewProviderError(ErrorInternal, m.Name(), "writing model id", err)
	}
	if err := w.Close(); err != nil {
		return "", NewProviderError(ErrorInternal, m.Name(), "closing form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v2/inferences/enqueue", &body)
	if err != nil {
		return "", NewProviderError(ErrorInternal, m.Name(), "creating request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", NewProviderError(ErrorProviderOutage, m.Name(), "calling enqueue API", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusCreated:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", NewProviderError(ErrorAuthentication, m.Name(), "enqueue rejected credentials", nil)
	case http.StatusPaymentRequired:
		return "", NewProviderError(ErrorPaymentRequired, m.Name(), "subscription inactive", nil)
	case http.StatusTooManyRequests:
		return "", NewProviderError(ErrorRateLimited, m.Name(), "enqueue rate limited", nil)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", noResult(m.Name(), fmt.Sprintf("enqueue failed (status %d): %s", resp.StatusCode, string(b)), nil)
	}

	var job mindeeJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", NewProviderError(ErrorBadData, m.Name(), "decoding enqueue response", err)
	}
	if job.pollingURL() == "" {
		return "", NewProviderError(ErrorBadData, m.Name(), "enqueue response has no polling URL", nil)
	}
	return job.pollingURL(), nil
}

// waitForResult polls until the job is processed or failed. It sleeps
// before every poll and gives up after maxAttempts polls.
func (m *Mindee) waitForResult(ctx context.Context, pollingURL string) (string, error) {
	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		if attempt > 1 {
			timer.Reset(m.interval)
		}
		select {
		case <-ctx.Done():
			return "", NewProviderError(ErrorInternal, m.Name(), "polling canceled", ctx.Err())
		case <-timer.C:
		}

		state, resultURL, err := m.poll(ctx, pollingURL)
		if err != nil {
			if ctx.Err() != nil {
				return "", NewProviderError(ErrorInternal, m.Name(), "polling canceled", ctx.Err())
			}
			slog.Warn("Mindee poll failed", "attempt", attempt, "error", err)
			continue
		}

		switch state {
		case jobProcessed:
			m.observePolls(attempt)
			return resultURL, nil
		case jobFailed:
			m.observePolls(attempt)
			return "", NewProviderError(ErrorJobFailed, m.Name(), "inference job failed", nil)
		}
	}

	m.observePolls(m.maxAttempts)
	return "", NewProviderError(ErrorTimeout, m.Name(),
		fmt.Sprintf("job not processed after %d polls", m.maxAttempts), nil)
}

func (m *Mindee) poll(ctx context.Context, pollingURL string) (jobState, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollingURL, nil)
	if err != nil {
		return jobPending, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return jobPending, "", fmt.Errorf("calling polling URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		location := resp.Header.Get("Location")
		if location == "" {
			return jobPending, "", fmt.Errorf("redirect (status %d) without location", resp.StatusCode)
		}
		resultURL, err := resolveURL(pollingURL, location)
		if err != nil {
			return jobPending, "", err
		}
		return jobProcessed, resultURL, nil
	}
	if resp.StatusCode != http.StatusOK {
		return jobPending, "", fmt.Errorf("polling failed (status %d)", resp.StatusCode)
	}

	var job mindeeJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return jobPending, "", fmt.Errorf("decoding poll response: %w", err)
	}

	switch strings.ToLower(job.status()) {
	case "processed":
		if job.resultURL() == "" {
			return jobPending, "", fmt.Errorf("processed job has no result URL")
		}
		resultURL, err := resolveURL(pollingURL, job.resultURL())
		if err != nil {
			return jobPending, "", err
		}
		return jobProcessed, resultURL, nil
	case "failed":
		return jobFailed, "", nil
	default:
		return jobPending, "", nil
	}
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing polling URL: %w", err)
	}
	r, err := b.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing result URL: %w", err)
	}
	return r.String(), nil
}

func (m *Mindee) fetchResult(ctx context.Context, resultURL string) (passport.Fields, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return nil, NewProviderError(ErrorInternal, m.Name(), "creating request", err)
	}
	req.Header.Set("Authorization", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, NewProviderError(ErrorProviderOutage, m.Name(), "fetching result", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, noResult(m.Name(), fmt.Sprintf("result fetch failed (status %d)", resp.StatusCode), nil)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewProviderError(ErrorBadData, m.Name(), "decoding result", err)
	}

	fields := resultFields(payload)
	if len(fields) == 0 {
		return nil, noResult(m.Name(), "no fields in result", nil)
	}
	return fields, nil
}

// resultFields finds the field map in the payload shapes the API has used
func resultFields(payload map[string]any) passport.Fields {
	for _, path := range [][]string{
		{"inference", "result", "fields"},
		{"inference", "pages", "0", "prediction"},
		{"document", "inference", "prediction"},
		{"inference", "prediction"},
	} {
		if fields := dig(payload, path...); len(fields) > 0 {
			return passport.Fields(fields)
		}
	}
	return nil
}

// dig walks nested objects; a "0" step indexes the first element of an array
func dig(v any, path ...string) map[string]any {
	for _, key := range path {
		switch t := v.(type) {
		case map[string]any:
			v = t[key]
		case []any:
			if key != "0" || len(t) == 0 {
				return nil
			}
			v = t[0]
		default:
			return nil
		}
	}
	m, _ := v.(map[string]any)
	return m
}

func (m *Mindee) observePolls(attempts int) {
	if m.observer != nil {
		m.observer.ObservePolls(m.Name(), attempts)
	}
}

// Close closes the Mindee client (no-op for HTTP client)
func (m *Mindee) Close() error {
	return nil
}
