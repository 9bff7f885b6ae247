package utils

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultUserAgent identifies the proxy to upstream APIs.
const DefaultUserAgent = "vt-scanner-api/1.0 (+https://github.com/vit0-9/vt_scanner_api)"

var (
	apiClient     *http.Client
	apiClientOnce sync.Once
)

// initializeAPIClient creates the shared HTTP client used for upstream API calls.
// It has no overall Timeout: callers bound each call through its context, since
// uploads and status queries need different limits.
func initializeAPIClient() {
	apiClientOnce.Do(func() {
		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   15 * time.Second, // Connection timeout
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20, // every call goes to the same API host
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		}

		apiClient = &http.Client{
			Transport: transport,
			// API calls never need to follow redirects; surface them as-is.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	})
}

// APIClient returns the process-wide HTTP client for upstream API calls.
// It is safe for concurrent use.
func APIClient() *http.Client {
	initializeAPIClient()
	return apiClient
}
