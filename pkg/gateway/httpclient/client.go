package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// New creates an HTTP client tuned for outbound artifact downloads.
func New(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewResty wraps New for callers that want resty's request builder. Retries
// stay disabled: a failed download fails startup.
func NewResty(timeout time.Duration) *resty.Client {
	return resty.NewWithClient(New(timeout)).
		SetRetryCount(0).
		SetHeader("User-Agent", "healthsense-predictor/1")
}
