// Package fetch provides the small HTTP fetching and HTML-to-text layer used
// by company site verification. It deliberately knows nothing about scoring.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page fetch. Verification probes must stay
// in the single-digit-second range so one slow site cannot stall a request.
const DefaultTimeout = 6 * time.Second

// DefaultUserAgent identifies the detector's verification probes.
const DefaultUserAgent = "Mozilla/5.0 (compatible; GhostJobDetector/1.0)"

// Result holds the raw and processed content of one fetched page.
type Result struct {
	URL        string
	HTML       string
	Text       string
	StatusCode int
}

// Error represents a failure fetching a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client fetches pages and extracts their readable text. Implementations
// must honor context cancellation.
type Client interface {
	FetchText(ctx context.Context, urlStr string) (*Result, error)
}

// HTTPClient is the production Client backed by net/http and goquery.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a fetch client with the given timeout. A zero
// timeout uses DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: DefaultUserAgent,
	}
}

// FetchText retrieves a URL and returns its status plus extracted body text.
// A non-200 response is returned as a Result with an Error so callers can
// distinguish "page missing" from "network down".
func (c *HTTPClient) FetchText(ctx context.Context, urlStr string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:        urlStr,
		HTML:       string(bodyBytes),
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	text, err := ExtractText(result.HTML)
	if err != nil {
		return result, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	result.Text = text

	return result, nil
}

// ExtractText parses HTML and returns the main body text with navigation,
// scripts, and similar noise removed.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range []string{"main", "article", ".content", "#content"} {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return collapseWhitespace(main.Text()), nil
}

func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
