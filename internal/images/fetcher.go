// Package images provides the image acquirer for the blog-video-service.
//
// Source images are downloaded sequentially, in caller order, because slide
// order is download order. Individual download failures are logged and
// skipped; when nothing usable remains, a generated placeholder carrying the
// post title guarantees at least one slide.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/book-expert/blog-video-service/internal/core"
	"github.com/book-expert/logger"
)

// downloadTimeout bounds each individual image download.
const downloadTimeout = 15 * time.Second

// File permissions for downloaded artifacts.
const imageFilePermissions = 0o600

// Temp file name patterns, keyed by post identifier.
const (
	imageFilePattern       = "img_%s_%d.jpg"
	placeholderFilePattern = "title_%s.png"
)

// Fetcher downloads post images and generates the title placeholder.
type Fetcher struct {
	httpClient *http.Client
	log        *logger.Logger
	maxImages  int
}

// NewFetcher creates an image fetcher that attempts at most maxImages
// downloads per request.
func NewFetcher(maxImages int, log *logger.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: downloadTimeout},
		log:        log,
		maxImages:  maxImages,
	}
}

// Acquire downloads up to the configured number of post images into tmpDir and
// returns their paths in download order. Failed downloads are skipped. When no
// image survives, the returned slice holds exactly one generated placeholder.
func (f *Fetcher) Acquire(ctx context.Context, req core.PostRequest, tmpDir string) ([]string, error) {
	urls := req.Images
	if len(urls) > f.maxImages {
		urls = urls[:f.maxImages]
	}

	var paths []string

	for index, imageURL := range urls {
		path := filepath.Join(tmpDir, fmt.Sprintf(imageFilePattern, req.PostID, index))

		err := f.download(ctx, imageURL, path)
		if err != nil {
			f.log.Warn("Skipping image %d for post %s: %v", index, req.PostID, err)

			continue
		}

		paths = append(paths, path)
	}

	if len(paths) > 0 {
		return paths, nil
	}

	placeholderPath := filepath.Join(tmpDir, fmt.Sprintf(placeholderFilePattern, req.PostID))

	err := GeneratePlaceholder(req.Title, placeholderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder image: %w", err)
	}

	f.log.Info("No usable source images for post %s, generated placeholder %s", req.PostID, placeholderPath)

	return []string{placeholderPath}, nil
}

// download fetches one image URL and writes the raw response body to path.
func (f *Fetcher) download(ctx context.Context, imageURL, path string) error {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", imageURL, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, imageURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read image body from %s: %w", imageURL, err)
	}

	err = os.WriteFile(path, data, imageFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write image file %s: %w", path, err)
	}

	return nil
}
