package scanner

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/vit0-9/vt_scanner_api/pkg/utils"
	"github.com/vit0-9/vt_scanner_api/pkg/virustotal"
)

// Analyzer is the remote scanning service. *virustotal.Client implements it.
type Analyzer interface {
	SubmitURL(ctx context.Context, target string) (analysisID string, err error)
	SubmitFile(ctx context.Context, filename, contentType string, r io.Reader) (analysisID string, err error)
	GetAnalysis(ctx context.Context, analysisID string) (*virustotal.Analysis, error)
}

// PollPolicy bounds how long a scan waits for VirusTotal to finish.
type PollPolicy struct {
	// MaxWait is the total time allowed for polling, measured from the first poll.
	MaxWait time.Duration
	// PollInterval is the pause between two status queries.
	PollInterval time.Duration
}

var (
	DefaultURLPolicy  = PollPolicy{MaxWait: 25 * time.Second, PollInterval: 1200 * time.Millisecond}
	DefaultFilePolicy = PollPolicy{MaxWait: 90 * time.Second, PollInterval: 2 * time.Second}
)

type Config struct {
	URLPolicy  PollPolicy
	FilePolicy PollPolicy
	Logger     *slog.Logger
}

// FileInput is an uploaded file to scan.
type FileInput struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Scanner drives one scan at a time per call: submit, poll, aggregate.
// It keeps no per-scan state and is safe for concurrent use.
type Scanner struct {
	analyzer Analyzer
	config   Config
	logger   *slog.Logger
	now      func() time.Time
}

func New(analyzer Analyzer, config Config) *Scanner {
	if config.URLPolicy == (PollPolicy{}) {
		config.URLPolicy = DefaultURLPolicy
	}
	if config.FilePolicy == (PollPolicy{}) {
		config.FilePolicy = DefaultFilePolicy
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		analyzer: analyzer,
		config:   config,
		logger:   logger.With(slog.String("component", "scanner")),
		now:      time.Now,
	}
}

// ScanURL submits target and waits for its verdict.
func (s *Scanner) ScanURL(ctx context.Context, target string) (*Result, error) {
	logger := s.logger.With(slog.String("kind", "url"), slog.String("target_domain", utils.RegistrableDomain(target)))

	analysisID, err := s.analyzer.SubmitURL(ctx, target)
	if err != nil {
		logger.Warn("submission failed", slog.String("error", err.Error()))
		return nil, err
	}
	logger = logger.With(slog.String("analysis_id", analysisID))
	logger.Debug("url submitted")

	attrs, err := s.poll(ctx, analysisID, s.config.URLPolicy, logger)
	if err != nil {
		return nil, err
	}
	result := Assemble(Target{URL: target}, analysisID, attrs)
	logResult(logger, result)
	return result, nil
}

// ScanFile uploads in and waits for its verdict.
func (s *Scanner) ScanFile(ctx context.Context, in FileInput) (*Result, error) {
	logger := s.logger.With(slog.String("kind", "file"), slog.String("filename", in.Filename))

	analysisID, err := s.analyzer.SubmitFile(ctx, in.Filename, in.ContentType, in.Reader)
	if err != nil {
		logger.Warn("submission failed", slog.String("error", err.Error()))
		return nil, err
	}
	logger = logger.With(slog.String("analysis_id", analysisID))
	logger.Debug("file submitted")

	attrs, err := s.poll(ctx, analysisID, s.config.FilePolicy, logger)
	if err != nil {
		return nil, err
	}
	result := Assemble(Target{Filename: in.Filename}, analysisID, attrs)
	logResult(logger, result)
	return result, nil
}

// poll queries the analysis until it completes or policy.MaxWait has elapsed,
// and returns the attributes of the last payload received. Reaching the
// deadline is not an error: the caller gets whatever was last seen, or zero
// attributes when no poll happened.
func (s *Scanner) poll(ctx context.Context, analysisID string, policy PollPolicy, logger *slog.Logger) (virustotal.AnalysisAttributes, error) {
	var last virustotal.AnalysisAttributes
	if policy.MaxWait <= 0 {
		logger.Info("analysis deadline reached before completion", slog.String("status", last.Status), slog.Duration("max_wait", policy.MaxWait))
		return last, nil
	}
	deadline := s.now().Add(policy.MaxWait)

	for attempt := 1; ; attempt++ {
		analysis, err := s.analyzer.GetAnalysis(ctx, analysisID)
		if err != nil {
			logger.Warn("analysis fetch failed", slog.Int("attempt", attempt), slog.String("error", err.Error()))
			return last, err
		}
		last = analysis.Data.Attributes
		logger.Debug("analysis polled", slog.Int("attempt", attempt), slog.String("status", last.Status))

		if analysis.Completed() {
			return last, nil
		}
		if !s.now().Before(deadline) {
			break
		}

		timer := time.NewTimer(policy.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, virustotal.NewUnexpectedError("scan canceled while waiting for analysis", ctx.Err())
		case <-timer.C:
		}
	}

	logger.Info("analysis deadline reached before completion", slog.String("status", last.Status), slog.Duration("max_wait", policy.MaxWait))
	return last, nil
}

func logResult(logger *slog.Logger, r *Result) {
	logger.Info("scan finished",
		slog.String("status", r.Status),
		slog.Int("total", r.Total),
		slog.Int("malicious", r.Stats.Get(CategoryMalicious)),
		slog.Int("suspicious", r.Stats.Get(CategorySuspicious)),
		slog.Float64("danger_percentage", r.DangerPercentage),
	)
}
