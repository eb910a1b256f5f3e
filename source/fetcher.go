// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxRedirects = 5

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	// Timeout bounds a whole request including redirects.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxContentSize is the largest response body accepted, in bytes.
	MaxContentSize int64

	// AllowInsecure permits private and loopback addresses.
	AllowInsecure bool

	// MaxAttempts is how many times a request is tried when the server
	// answers 429 or 5xx, or the connection times out.
	MaxAttempts int

	// RetryDelay is the wait before the first retry; it doubles after each attempt.
	RetryDelay time.Duration
}

// DefaultFetcherConfig returns the configuration used by the CLI.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:        30 * time.Second,
		UserAgent:      "curator/1.0 (+https://github.com/poiesic/curator)",
		MaxContentSize: 5 * 1024 * 1024,
		MaxAttempts:    3,
		RetryDelay:     500 * time.Millisecond,
	}
}

// Fetcher retrieves URL sources and returns their text as markdown.
type Fetcher struct {
	client    *http.Client
	config    FetcherConfig
	converter *Converter
	logger    *slog.Logger
}

// NewFetcher creates a fetcher. Zero config fields take their defaults.
func NewFetcher(config FetcherConfig) *Fetcher {
	defaults := DefaultFetcherConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.MaxContentSize <= 0 {
		config.MaxContentSize = defaults.MaxContentSize
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	dial := dialer.DialContext
	if !config.AllowInsecure {
		// Resolve first so a public name cannot rebind to a private address.
		dial = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				if isPrivateIP(ip.IP) {
					return nil, fmt.Errorf("%w: %s resolves to %s", ErrBlockedURL, host, ip.IP)
				}
			}
			var lastErr error
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.IP.String(), port))
				if err == nil {
					return conn, nil
				}
				lastErr = err
			}
			return nil, fmt.Errorf("dial %s: %w", host, lastErr)
		}
	}

	f := &Fetcher{
		config:    config,
		converter: NewConverter(),
		logger:    slog.Default().With("component", "fetcher"),
	}
	f.client = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			DialContext:           dial,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: config.Timeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (max %d)", maxRedirects)
			}
			return f.checkURL(req.URL)
		},
	}
	return f
}

func (f *Fetcher) checkURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, u)
	}
	if f.config.AllowInsecure {
		return nil
	}
	return checkPublicHost(u.Hostname())
}

// ReadURL fetches rawURL and returns its text. HTML is converted to markdown;
// other text types are returned as-is.
func (f *Fetcher) ReadURL(ctx context.Context, rawURL string) (string, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	parsed, _ := url.Parse(normalized)
	if err := f.checkURL(parsed); err != nil {
		return "", err
	}

	var body []byte
	var mediaType string
	err = retryWithBackoff(ctx, func() error {
		var fetchErr error
		body, mediaType, fetchErr = f.fetch(ctx, normalized)
		return fetchErr
	}, f.config.MaxAttempts, f.config.RetryDelay, isTransient)
	if err != nil {
		return "", err
	}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		page, err := f.converter.Convert(string(body))
		if err != nil {
			return "", fmt.Errorf("convert %s: %w", normalized, err)
		}
		f.logger.Debug("fetched page", "url", normalized, "title", page.Title, "bytes", len(body))
		return page.Text(), nil
	case strings.HasPrefix(mediaType, "text/"), mediaType == "application/json", mediaType == "":
		return strings.TrimSpace(string(body)), nil
	default:
		return "", fmt.Errorf("%w: %s has content type %s", ErrUnsupportedDocument, normalized, mediaType)
	}
}

// fetch performs one GET and returns the body and its media type.
func (f *Fetcher) fetch(ctx context.Context, normalized string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &statusError{url: normalized, code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxContentSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	if int64(len(body)) > f.config.MaxContentSize {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", ErrContentTooLarge, normalized, f.config.MaxContentSize)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return body, mediaType, nil
}

// statusError reports a non-200 response.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d from %s", ErrFetchFailed, e.code, e.url)
}

func (e *statusError) Unwrap() error {
	return ErrFetchFailed
}

// isTransient reports whether a failed fetch is worth repeating.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
