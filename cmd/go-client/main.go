// main package for the blog-video-service command line client.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Flag descriptions.
const (
	flagServerDesc = "Base URL of a running blog-video-service"
	flagTextDesc   = "Post content to narrate"
	flagFileDesc   = "Read post content from this file instead of --text"
	flagTitleDesc  = "Post title"
	flagPostIDDesc = "Post identifier"
	flagImageDesc  = "Image URL to include as a slide (repeatable)"
	flagHealthDesc = "Check service liveness and exit"
)

// requestTimeout bounds the whole generation request; encoding long posts is
// slow.
const requestTimeout = 10 * time.Minute

// Static errors.
var (
	ErrNoContent       = errors.New("either --text or --file must be provided")
	ErrBothContentArgs = errors.New("cannot specify both --text and --file")
)

// imageList collects repeated --image flags.
type imageList []string

func (l *imageList) String() string {
	return fmt.Sprint(*l)
}

func (l *imageList) Set(value string) error {
	*l = append(*l, value)

	return nil
}

type options struct {
	server string
	text   string
	file   string
	title  string
	postID string
	images imageList
	health bool
}

func parseFlags() *options {
	opts := &options{}

	flag.StringVar(&opts.server, "server", "http://localhost:8080", flagServerDesc)
	flag.StringVar(&opts.text, "text", "", flagTextDesc)
	flag.StringVar(&opts.file, "file", "", flagFileDesc)
	flag.StringVar(&opts.title, "title", "Blog Video", flagTitleDesc)
	flag.StringVar(&opts.postID, "post-id", "post", flagPostIDDesc)
	flag.Var(&opts.images, "image", flagImageDesc)
	flag.BoolVar(&opts.health, "health", false, flagHealthDesc)
	flag.Parse()

	return opts
}

func run() error {
	opts := parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if opts.health {
		return checkHealth(ctx, opts.server)
	}

	content, err := resolveContent(opts)
	if err != nil {
		return err
	}

	videoURL, err := generateVideo(ctx, opts, content)
	if err != nil {
		return err
	}

	if videoURL == "" {
		fmt.Println("Video generated; upload is disabled on the service, no public URL")

		return nil
	}

	fmt.Printf("Video URL: %s\n", videoURL)

	return nil
}

func resolveContent(opts *options) (string, error) {
	if opts.text != "" && opts.file != "" {
		return "", ErrBothContentArgs
	}

	if opts.text != "" {
		return opts.text, nil
	}

	if opts.file == "" {
		return "", ErrNoContent
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}

	return string(data), nil
}

func checkHealth(ctx context.Context, server string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("service is not reachable at %s: %w", server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service is not healthy: %s", resp.Status)
	}

	fmt.Println("Service is healthy")

	return nil
}

func generateVideo(ctx context.Context, opts *options, content string) (string, error) {
	payload := map[string]any{
		"content": content,
		"images":  []string(opts.images),
		"title":   opts.title,
		"post_id": opts.postID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.server+"/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", opts.server, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed struct {
		VideoURL string `json:"video_url"`
		Error    string `json:"error"`
	}

	err = json.Unmarshal(respBody, &parsed)
	if err != nil {
		return "", fmt.Errorf("unexpected response (%s): %s", resp.Status, string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service returned %s: %s", resp.Status, parsed.Error)
	}

	return parsed.VideoURL, nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
