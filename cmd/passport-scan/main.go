package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/metrics"
	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scan"
	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// ocrConfig selects and configures the OCR engine behind the MRZ scanner
type ocrConfig struct {
	engine            string
	tesseractLang     string
	visionCredentials string
	azureEndpoint     string
	azureKey          string
	geminiKey         string
	geminiModel       string
	ollamaURL         string
	ollamaModel       string
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A missing .env is fine; real environment variables still apply
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "error: loading .env: %v\n", err)
		os.Exit(1)
	}

	fs := ff.NewFlagSet("passport-scan")
	var (
		port              = fs.IntLong("port", 8080, "HTTP server port")
		dbPath            = fs.StringLong("db", "passport-scan.db", "Scan audit database file path")
		logLevel          = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		authUser          = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass          = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		ocrEngine         = fs.StringLong("ocr-engine", "tesseract", "OCR engine: tesseract, vision, azure, gemini, ollama or none")
		tesseractLang     = fs.StringLong("tesseract-lang", "eng", "Tesseract languages, comma separated")
		visionCredentials = fs.StringLong("vision-credentials", "", "Google Cloud credentials file (default: application default credentials)")
		azureEndpoint     = fs.StringLong("azure-endpoint", "", "Azure Computer Vision endpoint")
		azureKey          = fs.StringLong("azure-key", "", "Azure Computer Vision key")
		geminiKey         = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel       = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL         = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel       = fs.StringLong("ollama-model", scanning.DefaultOllamaModel, "Ollama vision model name")
		enhance           = fs.BoolLong("enhance", "Grayscale, sharpen and upscale images before OCR")
		mindeeKey         = fs.StringLong("mindee-key", "", "Mindee API key (or set MINDEE_API_KEY env var)")
		mindeeURL         = fs.StringLong("mindee-url", "https://api-v2.mindee.net", "Mindee API base URL")
		mindeeModel       = fs.StringLong("mindee-model-id", "", "Mindee passport model ID")
		pollInterval      = fs.DurationLong("poll-interval", 2*time.Second, "Interval between Mindee job polls")
		pollAttempts      = fs.IntLong("poll-attempts", 15, "Maximum Mindee job polls before timing out")
		showVersion       = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("PASSPORT_SCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	slog.Info("Initializing database...", "path", *dbPath)
	db, err := scan.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ocr := ocrConfig{
		engine:            *ocrEngine,
		tesseractLang:     *tesseractLang,
		visionCredentials: *visionCredentials,
		azureEndpoint:     *azureEndpoint,
		azureKey:          *azureKey,
		geminiKey:         *geminiKey,
		geminiModel:       *geminiModel,
		ollamaURL:         *ollamaURL,
		ollamaModel:       *ollamaModel,
	}
	if ocr.geminiKey == "" {
		ocr.geminiKey = os.Getenv("GEMINI_API_KEY")
	}
	recognizer, err := newRecognizer(ctx, ocr)
	if err != nil {
		slog.Error("Failed to initialize OCR engine", "engine", ocr.engine, "error", err)
		os.Exit(1)
	}

	apiKey := *mindeeKey
	if apiKey == "" {
		apiKey = os.Getenv("MINDEE_API_KEY")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	mindee := scanning.NewMindeeWithDeps(scanning.MindeeConfig{
		APIKey:          apiKey,
		BaseURL:         *mindeeURL,
		ModelID:         *mindeeModel,
		PollInterval:    *pollInterval,
		MaxPollAttempts: *pollAttempts,
	}, &http.Client{Timeout: 30 * time.Second}, m)

	pipeline := scanning.NewPipelineWithDeps(m, nil,
		scanning.NewMRZScanner(recognizer, *enhance),
		mindee,
	)
	defer pipeline.Close()

	if !pipeline.Configured() {
		slog.Warn("No scanning provider is configured; scans will return 503")
	}
	slog.Info("Scanning providers",
		"ocr_engine", ocr.engine,
		"mrz", recognizer != nil,
		"mindee", mindee.Configured(),
	)

	service := scan.NewService(db, pipeline)
	server := scan.NewServer(service, scan.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	<-ctx.Done()
	slog.Info("Shutting down...")
}

// newRecognizer builds the OCR engine named by cfg.engine. "none" returns a
// nil recognizer, which leaves the MRZ scanner unconfigured.
func newRecognizer(ctx context.Context, cfg ocrConfig) (scanning.Recognizer, error) {
	switch cfg.engine {
	case "tesseract":
		return scanning.NewTesseract(strings.Split(cfg.tesseractLang, ",")...), nil
	case "vision":
		return scanning.NewVision(ctx, cfg.visionCredentials)
	case "azure":
		return scanning.NewAzure(cfg.azureEndpoint, cfg.azureKey)
	case "gemini":
		return scanning.NewGemini(ctx, cfg.geminiKey, cfg.geminiModel)
	case "ollama":
		return scanning.NewOllama(cfg.ollamaURL, cfg.ollamaModel), nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown ocr engine %q (valid: tesseract, vision, azure, gemini, ollama, none)", cfg.engine)
}
