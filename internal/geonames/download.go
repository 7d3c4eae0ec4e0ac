package geonames

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// RetryLimit and RetryWait are the data server's download backoff
// tunables, both vars rather than consts: tests shrink RetryWait
// instead of spending real wall-clock time on backoff, and a
// deployment's configured tunable can override either at boot.
var (
	RetryLimit = 3
	RetryWait  = 5000 * time.Millisecond
)

// CountryZipURL returns the upstream URL for a country's geonames dump.
func CountryZipURL(code string) string {
	return fmt.Sprintf("http://download.geonames.org/export/dump/%s.zip", code)
}

// Downloader fetches country dumps through a configured forward proxy,
// grounded on andreiashu-geobed/geobed.go's downloadFile (atomic
// write-then-cleanup on failure) and johnjansen-torua's cmd/node
// register() (bounded-retry-with-fixed-backoff idiom).
type Downloader struct {
	client *http.Client
}

// NewDownloader builds a Downloader that routes every request through
// proxyHost:proxyPort. An empty proxyHost disables the proxy.
func NewDownloader(proxyHost string, proxyPort int) (*Downloader, error) {
	transport := &http.Transport{}
	if proxyHost != "" {
		proxyURL := &url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", proxyHost, proxyPort)}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &Downloader{client: &http.Client{Transport: transport, Timeout: 30 * time.Second}}, nil
}

// ETag performs a HEAD request and returns the upstream validator
// token, used by stage 2 of the startup pipeline to decide whether a
// fresh download is needed.
func (d *Downloader) ETag(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building HEAD request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HEAD %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HEAD %s: status %d", rawURL, resp.StatusCode)
	}
	return resp.Header.Get("ETag"), nil
}

// Get downloads rawURL to destPath with up to RetryLimit attempts and a
// fixed RetryWait backoff between attempts, matching cmd/node's
// register() retry loop. Returns the upstream ETag on success. The
// destination file is written atomically (temp file + rename) and any
// partial file is removed on failure or on ctx cancellation, the same
// discipline downloadFile uses in andreiashu-geobed.
func (d *Downloader) Get(ctx context.Context, rawURL, destPath string) (etag string, err error) {
	var lastErr error
	for attempt := 0; attempt < RetryLimit; attempt++ {
		etag, lastErr = d.getOnce(ctx, rawURL, destPath)
		if lastErr == nil {
			return etag, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == RetryLimit-1 {
			break
		}
		select {
		case <-time.After(RetryWait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%w: %v", ErrRetryLimitExceeded, lastErr)
}

// ErrRetryLimitExceeded is returned by Get once every attempt has
// failed; the data server wraps it into a crash reason.
var ErrRetryLimitExceeded = fmt.Errorf("retry limit exceeded")

func (d *Downloader) getOnce(ctx context.Context, rawURL, destPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building GET request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	tmp := destPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", tmp, err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tmp)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmp, err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(destPath), err)
	}
	if err := os.Rename(tmp, destPath); err != nil {
		return "", fmt.Errorf("renaming %s to %s: %w", tmp, destPath, err)
	}
	success = true
	return resp.Header.Get("ETag"), nil
}
