// Package core defines the core business logic and interfaces for the
// blog-video-service.
package core

import "context"

// PostRequest holds the request-scoped input for a single video generation job.
type PostRequest struct {
	Content string
	Images  []string
	Title   string
	PostID  string
}

// SpeechSynthesizer defines the interface for turning post text into a single
// narration audio file on disk.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// ImageSource defines the interface for acquiring the slide images of a post.
// Implementations must return at least one image path: when no usable source
// image exists, a generated placeholder carrying the post title stands in.
type ImageSource interface {
	Acquire(ctx context.Context, req PostRequest, tmpDir string) ([]string, error)
}

// Assembler defines the interface for combining slide images and a narration
// audio track into a single encoded video file. It returns the narration
// duration in seconds.
type Assembler interface {
	Assemble(ctx context.Context, imagePaths []string, audioPath, outputPath string) (float64, error)
}

// MediaUploader defines the interface for storing a finished video in a remote
// media library. An unconfigured uploader returns an empty URL and no error.
type MediaUploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}

// VideoArchive defines the interface for an optional key-value blob store that
// keeps a copy of finished videos.
type VideoArchive interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
}
