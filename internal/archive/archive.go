// Package archive downloads a tarball and unpacks it into a directory.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"

	"getsrc/internal/color"
	logger "getsrc/internal/log"
)

type Options struct {
	// Retries beyond the first attempt. Zero means a single attempt.
	Retries int
	// Client replaces the default client. Its own RetryMax applies and Retries is ignored.
	Client *retryablehttp.Client
}

type Result struct {
	Bytes   int64
	Entries []string
}

// Fetch downloads url to filename, extracts every entry into target and removes filename.
// When extraction fails the download is left in place.
func Fetch(ctx context.Context, url string, filename string, target string, opts Options) (*Result, error) {
	logger.Log.Infof("downloading %s", color.FgCyan(filename))
	size, err := Download(ctx, url, filename, opts)
	if err != nil {
		return nil, err
	}

	logger.Log.Infof("extracting %s to %s", color.FgCyan(filename), color.FgCyan(target))
	entries, err := Extract(filename, target)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", filename, err)
	}

	if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove %s: %w", filename, err)
	}
	return &Result{Bytes: size, Entries: entries}, nil
}

// Download writes the body of url to filename, replacing any existing file.
func Download(ctx context.Context, url string, filename string, opts Options) (int64, error) {
	client := opts.Client
	if client == nil {
		client = retryablehttp.NewClient()
		client.Logger = logger.Log
		client.RetryMax = opts.Retries
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download of %s failed: %w", url, err)
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("download of %s failed with status: %s", url, resp.Status)
	}

	file, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	size, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return size, fmt.Errorf("failed writing %s: %w", filename, err)
	}
	if size == 0 {
		if err := os.Remove(filename); err != nil {
			logger.Log.Warnf("Could not remove empty download %s: %v", filename, err)
		}
		return 0, fmt.Errorf("download of %s was empty", url)
	}
	logger.Log.Infof("downloaded %s (%s)", filename, humanize.Bytes(uint64(size)))
	return size, nil
}
