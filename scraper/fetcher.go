// scraper/fetcher.go
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request describes one JSON call. A non-nil Body is sent as a JSON POST;
// otherwise Query goes on a GET. CacheFile names the saved copy of the
// response, relative to the client's saved directory.
type Request struct {
	URL       string
	Query     url.Values
	Body      any
	CacheFile string
}

// Fetcher retrieves and decodes JSON responses.
type Fetcher interface {
	FetchJSON(ctx context.Context, req Request, out any) error
}

type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// SavedDir holds cached responses.
	SavedDir string
	// Save writes every successful response to SavedDir.
	Save bool
	// UseSaved reads responses from SavedDir instead of the network when
	// the cache file exists.
	UseSaved bool
}

// Client is the resty-backed Fetcher.
type Client struct {
	http *resty.Client
	opts ClientOptions
}

func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Client{http: client, opts: opts}
}

func (c *Client) FetchJSON(ctx context.Context, req Request, out any) error {
	cachePath := c.cachePath(req)
	if c.opts.UseSaved && cachePath != "" {
		body, err := os.ReadFile(cachePath)
		if err == nil {
			slog.DebugContext(ctx, "using saved response", "url", req.URL, "file", cachePath)
			return decode(req.URL, body, out)
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read saved response %s: %w", cachePath, err)
		}
	}

	r := c.http.R().SetContext(ctx)
	var (
		res *resty.Response
		err error
	)
	if req.Body != nil {
		res, err = r.SetBody(req.Body).Post(req.URL)
	} else {
		res, err = r.SetQueryParamsFromValues(req.Query).Get(req.URL)
	}
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", req.URL, err)
	}
	if res.IsError() {
		return fmt.Errorf("failed to request %s: received status code %d", req.URL, res.StatusCode())
	}

	body := res.Body()
	if err := decode(req.URL, body, out); err != nil {
		return err
	}
	if c.opts.Save && cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", cachePath, err)
		}
		if err := os.WriteFile(cachePath, body, 0o644); err != nil {
			return fmt.Errorf("failed to save response to %s: %w", cachePath, err)
		}
	}
	return nil
}

func (c *Client) cachePath(req Request) string {
	if req.CacheFile == "" || c.opts.SavedDir == "" {
		return ""
	}
	return filepath.Join(c.opts.SavedDir, req.CacheFile)
}

func decode(src string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", src, err)
	}
	return nil
}
