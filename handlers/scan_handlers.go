package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vit0-9/vt_scanner_api/models"
	"github.com/vit0-9/vt_scanner_api/pkg/scanner"
	"github.com/vit0-9/vt_scanner_api/pkg/utils"
	"github.com/vit0-9/vt_scanner_api/pkg/virustotal"
)

const (
	errMissingAPIKey  = "Missing VirusTotal API key"
	errNoURL          = "No URL provided"
	errNoFile         = "No file uploaded"
	errEmptyFilename  = "Empty filename"
	errFileTooLarge   = "File too large"
	errUnexpected     = "Unexpected error"
	formFieldFileName = "file"
)

// Scanner runs a full submit/poll/aggregate cycle. *scanner.Scanner implements it.
type Scanner interface {
	ScanURL(ctx context.Context, target string) (*scanner.Result, error)
	ScanFile(ctx context.Context, in scanner.FileInput) (*scanner.Result, error)
}

// ScanHandlers groups the VirusTotal scan endpoints.
type ScanHandlers struct {
	// scanner is nil when no API key is configured.
	scanner       Scanner
	maxUploadSize int64
	logger        *slog.Logger
}

// NewScanHandlers wires the scan endpoints. Pass a nil scanner when the API
// key is missing: every scan then fails with a configuration error before
// any network call.
func NewScanHandlers(s Scanner, maxUploadSize int64, logger *slog.Logger) *ScanHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanHandlers{scanner: s, maxUploadSize: maxUploadSize, logger: logger}
}

// ScanURLHandler godoc
// @Summary      Scan a URL
// @Description  Submits a URL to VirusTotal, polls the analysis for up to 25 seconds and returns the verdict summary. If the analysis has not completed by then, the last seen counts are returned with a 200.
// @Tags         Scanning
// @Accept       json
// @Produce      json
// @Param        scanRequest body models.ScanURLRequest true "URL to scan"
// @Success      200 {object} models.ScanResponse
// @Failure      400 {object} models.ErrorResponse "No URL provided"
// @Failure      500 {object} models.DetailedErrorResponse "Missing API key or unexpected error"
// @Failure      502 {object} models.DetailedErrorResponse "VirusTotal rejected the submission or the analysis query"
// @Router       /scan [post]
func (h *ScanHandlers) ScanURLHandler(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errMissingAPIKey})
		return
	}

	// Malformed bodies are treated like an empty one.
	var req models.ScanURLRequest
	_ = c.ShouldBindJSON(&req)

	target := utils.NormalizeScanURL(req.URL)
	if target == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errNoURL})
		return
	}

	result, err := h.scanner.ScanURL(c.Request.Context(), target)
	if err != nil {
		h.writeScanError(c, err)
		return
	}
	c.PureJSON(http.StatusOK, toScanResponse(result))
}

// ScanFileHandler godoc
// @Summary      Scan a file
// @Description  Uploads a file (PDF, DOCX, APK, ...) to VirusTotal, polls the analysis for up to 90 seconds and returns the verdict summary. If the analysis has not completed by then, the last seen counts are returned with a 200.
// @Tags         Scanning
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File to scan"
// @Success      200 {object} models.ScanResponse
// @Failure      400 {object} models.ErrorResponse "No file uploaded or empty filename"
// @Failure      413 {object} models.ErrorResponse "File too large"
// @Failure      500 {object} models.DetailedErrorResponse "Missing API key or unexpected error"
// @Failure      502 {object} models.DetailedErrorResponse "VirusTotal rejected the submission or the analysis query"
// @Router       /scan_file [post]
func (h *ScanHandlers) ScanFileHandler(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errMissingAPIKey})
		return
	}

	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}
	header, err := c.FormFile(formFieldFileName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: errFileTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errNoFile})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errEmptyFilename})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.DetailedErrorResponse{Error: errUnexpected, Details: err.Error()})
		return
	}
	defer file.Close()

	result, err := h.scanner.ScanFile(c.Request.Context(), scanner.FileInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		h.writeScanError(c, err)
		return
	}
	c.PureJSON(http.StatusOK, toScanResponse(result))
}

// writeScanError maps scanner failures to the endpoint's error contract:
// upstream rejections are 502, everything else is 500.
func (h *ScanHandlers) writeScanError(c *gin.Context, err error) {
	var vtErr *virustotal.Error
	if errors.As(err, &vtErr) {
		switch vtErr.Code {
		case virustotal.CodeSubmissionFailed, virustotal.CodeAnalysisFetchFailed, virustotal.CodeMissingAnalysisID:
			c.JSON(http.StatusBadGateway, models.DetailedErrorResponse{Error: vtErr.Message, Details: vtErr.Body})
			return
		}
	}
	h.logger.Error("scan failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, models.DetailedErrorResponse{Error: errUnexpected, Details: err.Error()})
}

func toScanResponse(r *scanner.Result) models.ScanResponse {
	return models.ScanResponse{
		URL:              r.Target.URL,
		Filename:         r.Target.Filename,
		Status:           r.Status,
		Total:            r.Total,
		Harmless:         r.Stats.Get(scanner.CategoryHarmless),
		Undetected:       r.Stats.Get(scanner.CategoryUndetected),
		Timeout:          r.Stats.Get(scanner.CategoryTimeout),
		Malicious:        r.Stats.Get(scanner.CategoryMalicious),
		Suspicious:       r.Stats.Get(scanner.CategorySuspicious),
		DangerPercentage: r.DangerPercentage,
		AnalysisID:       r.AnalysisID,
	}
}
