package virustotal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/vit0-9/vt_scanner_api/pkg/utils"
)

const (
	// DefaultBaseURL is the VirusTotal v3 API root.
	DefaultBaseURL = "https://www.virustotal.com/api/v3"

	defaultTimeout       = 30 * time.Second
	defaultUploadTimeout = 60 * time.Second

	// maxResponseBytes caps how much of an upstream body is buffered.
	maxResponseBytes = 8 << 20

	headerAPIKey = "x-apikey"

	pathURLs     = "/urls"
	pathFiles    = "/files"
	pathAnalyses = "/analyses/"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client talks to the VirusTotal v3 API. It holds read-only configuration and
// is safe for concurrent use from multiple goroutines.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
	userAgent     string
}

// NewClient creates a VirusTotal client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("virustotal: api key is required")
	}

	c := &Client{
		apiKey:        apiKey,
		baseURL:       DefaultBaseURL,
		timeout:       defaultTimeout,
		uploadTimeout: defaultUploadTimeout,
		userAgent:     utils.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("virustotal: base URL must include scheme and host: %q", c.baseURL)
	}
	if c.httpClient == nil {
		c.httpClient = utils.APIClient()
	}
	return c, nil
}

// SubmitURL submits a URL for analysis and returns the analysis id.
func (c *Client) SubmitURL(ctx context.Context, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{"url": {target}}
	req, err := c.newRequest(ctx, http.MethodPost, pathURLs, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.submit(req, "Submit failed")
}

// SubmitFile uploads a file for analysis and returns the analysis id.
// contentType is sent on the multipart part; it defaults to application/octet-stream.
func (c *Client) SubmitFile(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return "", NewUnexpectedError("failed to create multipart form", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", NewUnexpectedError("failed to write file data", err)
	}
	if err := writer.Close(); err != nil {
		return "", NewUnexpectedError("failed to close multipart writer", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, pathFiles, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.submit(req, "File submit failed")
}

// GetAnalysis fetches the current state of an analysis.
func (c *Client) GetAnalysis(ctx context.Context, analysisID string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, pathAnalyses+analysisID, nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		return nil, NewAnalysisFetchError(fmt.Sprintf("Analysis fetch failed: %d", status), status, string(body))
	}

	var analysis Analysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, NewUnexpectedError("failed to decode analysis response", err)
	}
	return &analysis, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) submit(req *http.Request, failure string) (string, error) {
	status, body, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status >= http.StatusBadRequest {
		return "", NewSubmissionError(fmt.Sprintf("%s: %d", failure, status), status, string(body))
	}

	var sub submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return "", NewUnexpectedError("failed to decode submission response", err)
	}
	if sub.Data.ID == "" {
		return "", NewMissingAnalysisIDError(string(body))
	}
	return sub.Data.ID, nil
}

// newRequest creates an authenticated request against the API root.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, NewUnexpectedError("failed to create request", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// do executes req and returns the status code and buffered body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, NewUnexpectedError(fmt.Sprintf("%s %s failed", req.Method, req.URL.Path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, NewUnexpectedError("failed to read response body", err)
	}
	return resp.StatusCode, body, nil
}
