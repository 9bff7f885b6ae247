package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/vit0-9/vt_scanner_api/models"
	"github.com/vit0-9/vt_scanner_api/pkg/logging"
	"github.com/vit0-9/vt_scanner_api/pkg/scanner"
	"github.com/vit0-9/vt_scanner_api/pkg/virustotal"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeScanner struct {
	result *scanner.Result
	err    error

	gotURL      string
	gotFile     scanner.FileInput
	gotContent  string
	calledCount int
}

func (f *fakeScanner) ScanURL(_ context.Context, target string) (*scanner.Result, error) {
	f.calledCount++
	f.gotURL = target
	return f.result, f.err
}

func (f *fakeScanner) ScanFile(_ context.Context, in scanner.FileInput) (*scanner.Result, error) {
	f.calledCount++
	f.gotFile = in
	b, _ := io.ReadAll(in.Reader)
	f.gotContent = string(b)
	return f.result, f.err
}

func newScanRouter(s Scanner, maxUpload int64) *gin.Engine {
	h := NewScanHandlers(s, maxUpload, logging.Discard())
	r := gin.New()
	r.POST("/scan", h.ScanURLHandler)
	r.POST("/scan_file", h.ScanFileHandler)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postFile(t *testing.T, r http.Handler, field, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/scan_file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.DetailedErrorResponse {
	t.Helper()
	var resp models.DetailedErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func completedResult(target scanner.Target) *scanner.Result {
	return scanner.Assemble(target, "u-abc-123", virustotal.AnalysisAttributes{
		Status: virustotal.StatusCompleted,
		Stats:  map[string]int{"harmless": 60, "malicious": 5, "suspicious": 5, "undetected": 30, "timeout": 0},
	})
}

func TestScanURLHandler_Success(t *testing.T) {
	fake := &fakeScanner{result: completedResult(scanner.Target{URL: "http://example.com"})}
	r := newScanRouter(fake, 1<<20)

	w := postJSON(r, "/scan", `{"url":"  http://example.com  "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	if fake.gotURL != "http://example.com" {
		t.Errorf("scanned %q, want trimmed URL", fake.gotURL)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	want := map[string]any{
		"url":               "http://example.com",
		"status":            "completed",
		"total":             float64(100),
		"harmless":          float64(60),
		"undetected":        float64(30),
		"timeout":           float64(0),
		"malicious":         float64(5),
		"suspicious":        float64(5),
		"danger_percentage": float64(10),
		"analysis_id":       "u-abc-123",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestScanURLHandler_URLNotEscaped(t *testing.T) {
	const target = "http://example.com/?a=1&b=<x>"
	fake := &fakeScanner{result: completedResult(scanner.Target{URL: target})}
	r := newScanRouter(fake, 1<<20)

	w := postJSON(r, "/scan", `{"url":"http://example.com/?a=1&b=<x>"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), target) {
		t.Errorf("body %s does not contain the raw URL %q", w.Body.String(), target)
	}
}

func TestScanURLHandler_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing url", body: `{}`},
		{name: "blank url", body: `{"url":"   "}`},
		{name: "malformed json", body: `{"url":`},
		{name: "empty body", body: ``},
		{name: "wrong type", body: `{"url":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeScanner{}
			w := postJSON(newScanRouter(fake, 1<<20), "/scan", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if diff := cmp.Diff(models.DetailedErrorResponse{Error: "No URL provided"}, decodeError(t, w)); diff != "" {
				t.Errorf("error body mismatch (-want +got):\n%s", diff)
			}
			if fake.calledCount != 0 {
				t.Error("scanner was called for invalid input")
			}
		})
	}
}

func TestScanHandlers_MissingAPIKey(t *testing.T) {
	r := newScanRouter(nil, 1<<20)

	for _, w := range []*httptest.ResponseRecorder{
		postJSON(r, "/scan", `{"url":"http://example.com"}`),
		postFile(t, r, "file", "a.txt", "text/plain", []byte("hello")),
	} {
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		if diff := cmp.Diff(models.DetailedErrorResponse{Error: "Missing VirusTotal API key"}, decodeError(t, w)); diff != "" {
			t.Errorf("error body mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestScanURLHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		want       models.DetailedErrorResponse
	}{
		{
			name:       "submission rejected",
			err:        virustotal.NewSubmissionError("Submit failed: 403", 403, `{"error":{"code":"WrongCredentialsError"}}`),
			wantStatus: http.StatusBadGateway,
			want:       models.DetailedErrorResponse{Error: "Submit failed: 403", Details: `{"error":{"code":"WrongCredentialsError"}}`},
		},
		{
			name:       "analysis fetch rejected",
			err:        virustotal.NewAnalysisFetchError("Analysis fetch failed: 500", 500, "oops"),
			wantStatus: http.StatusBadGateway,
			want:       models.DetailedErrorResponse{Error: "Analysis fetch failed: 500", Details: "oops"},
		},
		{
			name:       "missing analysis id",
			err:        virustotal.NewMissingAnalysisIDError(`{"data":{}}`),
			wantStatus: http.StatusBadGateway,
			want:       models.DetailedErrorResponse{Error: "No analysis ID returned", Details: `{"data":{}}`},
		},
		{
			name:       "transport failure",
			err:        virustotal.NewUnexpectedError("POST /urls failed", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			want:       models.DetailedErrorResponse{Error: "Unexpected error", Details: "POST /urls failed: connection refused"},
		},
		{
			name:       "foreign error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			want:       models.DetailedErrorResponse{Error: "Unexpected error", Details: "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(newScanRouter(&fakeScanner{err: tt.err}, 1<<20), "/scan", `{"url":"http://example.com"}`)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if diff := cmp.Diff(tt.want, decodeError(t, w)); diff != "" {
				t.Errorf("error body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanFileHandler_Success(t *testing.T) {
	fake := &fakeScanner{result: scanner.Assemble(scanner.Target{Filename: "a.txt"}, "f-42", virustotal.AnalysisAttributes{
		Status: virustotal.StatusCompleted,
		Stats:  map[string]int{"undetected": 70},
	})}
	r := newScanRouter(fake, 1<<20)

	w := postFile(t, r, "file", "a.txt", "text/plain", []byte("hello"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	if fake.gotFile.Filename != "a.txt" || fake.gotFile.ContentType != "text/plain" || fake.gotContent != "hello" {
		t.Errorf("scanned (%q, %q, %q), want (a.txt, text/plain, hello)", fake.gotFile.Filename, fake.gotFile.ContentType, fake.gotContent)
	}

	var got models.ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	want := models.ScanResponse{Filename: "a.txt", Status: "completed", Total: 70, Undetected: 70, AnalysisID: "f-42"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(w.Body.String(), `"url"`) {
		t.Errorf("file scan response carries a url key: %s", w.Body.String())
	}
}

func TestScanFileHandler_NoFile(t *testing.T) {
	tests := []struct {
		name string
		send func(t *testing.T, r http.Handler) *httptest.ResponseRecorder
	}{
		{
			name: "wrong field",
			send: func(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
				return postFile(t, r, "upload", "a.txt", "text/plain", []byte("x"))
			},
		},
		{
			name: "empty filename",
			send: func(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
				return postFile(t, r, "file", "", "text/plain", []byte("x"))
			},
		},
		{
			name: "not multipart",
			send: func(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
				return postJSON(r, "/scan_file", `{"file":"x"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeScanner{}
			w := tt.send(t, newScanRouter(fake, 1<<20))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decodeError(t, w).Error; got != "No file uploaded" && got != "Empty filename" {
				t.Errorf("error = %q, want a missing file error", got)
			}
			if fake.calledCount != 0 {
				t.Error("scanner was called without a file")
			}
		})
	}
}

func TestScanFileHandler_TooLarge(t *testing.T) {
	fake := &fakeScanner{}
	r := newScanRouter(fake, 1024)

	w := postFile(t, r, "file", "big.bin", "application/octet-stream", bytes.Repeat([]byte("A"), 64<<10))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	if fake.calledCount != 0 {
		t.Error("scanner was called for an oversized upload")
	}
}

func TestScanFileHandler_UpstreamRejected(t *testing.T) {
	fake := &fakeScanner{err: virustotal.NewSubmissionError("File submit failed: 403", 403, "forbidden")}
	w := postFile(t, newScanRouter(fake, 1<<20), "file", "a.txt", "", []byte("x"))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	want := models.DetailedErrorResponse{Error: "File submit failed: 403", Details: "forbidden"}
	if diff := cmp.Diff(want, decodeError(t, w)); diff != "" {
		t.Errorf("error body mismatch (-want +got):\n%s", diff)
	}
}

func TestScanHandlers_EmptyUpstreamBodyKeepsDetails(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "submission", err: virustotal.NewSubmissionError("Submit failed: 403", 403, "")},
		{name: "analysis fetch", err: virustotal.NewAnalysisFetchError("Analysis fetch failed: 503", 503, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(newScanRouter(&fakeScanner{err: tt.err}, 1<<20), "/scan", `{"url":"http://example.com"}`)
			if w.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", w.Code)
			}
			var got map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			want := map[string]any{"error": tt.err.Error(), "details": ""}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanURLHandler_ValidationErrorsOmitDetails(t *testing.T) {
	w := postJSON(newScanRouter(&fakeScanner{}, 1<<20), "/scan", `{}`)
	if got := w.Body.String(); strings.Contains(got, "details") {
		t.Errorf("400 body = %s, want only an error key", got)
	}
}
