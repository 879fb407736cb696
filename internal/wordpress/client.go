// Package wordpress provides the media uploader for the blog-video-service.
//
// A finished video is stored in the WordPress media library with a single
// authenticated POST. Upload is a non-essential step: when credentials are
// missing or the remote end misbehaves, the uploader degrades to an empty
// public URL instead of failing the request.
package wordpress

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/book-expert/logger"
)

// mediaEndpointPath is the WordPress REST media endpoint.
const mediaEndpointPath = "/wp-json/wp/v2/media"

// HTTP headers.
const (
	headerAuthorization      = "Authorization"
	headerContentDisposition = "Content-Disposition"
)

// uploadTimeout bounds the whole upload request.
const uploadTimeout = 5 * time.Minute

// mediaResponse is the subset of the WordPress media resource the service
// cares about.
type mediaResponse struct {
	SourceURL string `json:"source_url"`
}

// Client uploads files to a WordPress media library.
type Client struct {
	httpClient  *http.Client
	log         *logger.Logger
	baseURL     string
	user        string
	appPassword string
}

// NewClient creates a media upload client. Any empty credential soft-disables
// the client: Upload becomes a logged no-op returning an empty URL.
func NewClient(baseURL, user, appPassword string, log *logger.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: uploadTimeout},
		log:         log,
		baseURL:     baseURL,
		user:        user,
		appPassword: appPassword,
	}
}

// Configured reports whether all credentials required for upload are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.user != "" && c.appPassword != ""
}

// Upload stores the file in the media library and returns its public URL.
// Missing configuration, transport failures, and unparseable responses all
// degrade to an empty URL with a nil error.
func (c *Client) Upload(ctx context.Context, filePath string) (string, error) {
	if !c.Configured() {
		c.log.Warn("Media upload skipped: WordPress configuration is incomplete")

		return "", nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		c.log.Error("Media upload skipped: failed to open %s: %v", filePath, err)

		return "", nil
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mediaEndpointPath, file)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.user + ":" + c.appPassword))
	req.Header.Set(headerAuthorization, "Basic "+credentials)
	req.Header.Set(headerContentDisposition,
		fmt.Sprintf("attachment; filename=%s", filepath.Base(filePath)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Media upload failed for %s: %v", filePath, err)

		return "", nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("Failed to read media upload response: %v", err)

		return "", nil
	}

	var media mediaResponse

	err = json.Unmarshal(body, &media)
	if err != nil {
		c.log.Error("Unparseable media upload response (%s): %s", resp.Status, string(body))

		return "", nil
	}

	c.log.Info("Uploaded %s, public URL: %s", filepath.Base(filePath), media.SourceURL)

	return media.SourceURL, nil
}
