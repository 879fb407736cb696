// Package pipeline orchestrates a single blog-to-video request: synthesize
// narration, acquire slide images, assemble the video, upload it, and clean
// every temporary artifact up again.
//
// The flow is strictly linear and synchronous. Only video assembly has an
// explicit failure boundary (ErrAssembly); image acquisition, upload, archive,
// and notification all degrade silently, and cleanup runs for every path that
// created a file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/book-expert/blog-video-service/internal/core"
	"github.com/book-expert/blog-video-service/internal/notify"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
)

// Temp file name patterns, keyed by post identifier.
const (
	audioFilePattern = "audio_%s.mp3"
	videoFilePattern = "video_%s.mp4"
)

// ErrAssembly marks video assembly failures so the HTTP layer can report them
// with a structured body instead of a generic server error.
var ErrAssembly = errors.New("video creation failed")

// EventPublisher is the optional completion event sink.
type EventPublisher interface {
	Publish(event notify.VideoCreatedEvent) error
}

// Result describes a finished pipeline run.
type Result struct {
	RequestID  string
	VideoURL   string
	ArchiveKey string
	Slides     int
}

// Pipeline wires the per-request components together.
type Pipeline struct {
	synthesizer core.SpeechSynthesizer
	imageSource core.ImageSource
	assembler   core.Assembler
	uploader    core.MediaUploader
	archive     core.VideoArchive
	publisher   EventPublisher
	log         *logger.Logger
	tmpDir      string
}

// New creates a pipeline. The archive and publisher are optional; pass nil to
// disable them.
func New(
	synthesizer core.SpeechSynthesizer,
	imageSource core.ImageSource,
	assembler core.Assembler,
	uploader core.MediaUploader,
	videoArchive core.VideoArchive,
	publisher EventPublisher,
	tmpDir string,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		synthesizer: synthesizer,
		imageSource: imageSource,
		assembler:   assembler,
		uploader:    uploader,
		archive:     videoArchive,
		publisher:   publisher,
		log:         log,
		tmpDir:      tmpDir,
	}
}

// Run executes the full pipeline for one post. Temporary files created along
// the way are removed before Run returns, for success and failure paths alike.
func (p *Pipeline) Run(ctx context.Context, req core.PostRequest) (Result, error) {
	requestID := uuid.NewString()
	req.PostID = sanitizeIdentifier(req.PostID)

	p.log.Info("Request %s: generating video for post %s", requestID, req.PostID)

	var tempFiles []string

	defer func() {
		p.cleanup(tempFiles)
	}()

	audioPath := filepath.Join(p.tmpDir, fmt.Sprintf(audioFilePattern, req.PostID))

	err := p.synthesizer.Synthesize(ctx, req.Content, audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to synthesize narration: %w", err)
	}

	tempFiles = append(tempFiles, audioPath)

	imagePaths, err := p.imageSource.Acquire(ctx, req, p.tmpDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to acquire slide images: %w", err)
	}

	tempFiles = append(tempFiles, imagePaths...)

	videoPath := filepath.Join(p.tmpDir, fmt.Sprintf(videoFilePattern, req.PostID))

	// Registered before assembly: a failed encode can still leave a
	// partial output file behind.
	tempFiles = append(tempFiles, videoPath)

	duration, err := p.assembler.Assemble(ctx, imagePaths, audioPath, videoPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	videoURL, err := p.uploader.Upload(ctx, videoPath)
	if err != nil {
		p.log.Error("Request %s: media upload failed: %v", requestID, err)

		videoURL = ""
	}

	archiveKey := p.archiveVideo(ctx, requestID, req.PostID, videoPath)

	result := Result{
		RequestID:  requestID,
		VideoURL:   videoURL,
		ArchiveKey: archiveKey,
		Slides:     len(imagePaths),
	}

	p.publishEvent(req, result, duration)

	p.log.Info("Request %s: done, video URL %q", requestID, videoURL)

	return result, nil
}

// archiveVideo stores a copy of the finished video when an archive is
// configured. Failures are logged and swallowed.
func (p *Pipeline) archiveVideo(ctx context.Context, requestID, postID, videoPath string) string {
	if p.archive == nil {
		return ""
	}

	data, err := os.ReadFile(videoPath)
	if err != nil {
		p.log.Error("Request %s: failed to read video for archiving: %v", requestID, err)

		return ""
	}

	key := postID + "-" + requestID + ".mp4"

	err = p.archive.Upload(ctx, key, data)
	if err != nil {
		p.log.Error("Request %s: failed to archive video: %v", requestID, err)

		return ""
	}

	return key
}

// publishEvent emits the completion event when a publisher is configured.
// Failures are logged and swallowed.
func (p *Pipeline) publishEvent(req core.PostRequest, result Result, duration float64) {
	if p.publisher == nil {
		return
	}

	err := p.publisher.Publish(notify.VideoCreatedEvent{
		RequestID:       result.RequestID,
		PostID:          req.PostID,
		Title:           req.Title,
		VideoURL:        result.VideoURL,
		ArchiveKey:      result.ArchiveKey,
		Slides:          result.Slides,
		DurationSeconds: duration,
	})
	if err != nil {
		p.log.Error("Request %s: failed to publish completion event: %v", result.RequestID, err)
	}
}

// cleanup removes every temporary file, each guarded independently so one
// missing file does not abort deletion of the others.
func (p *Pipeline) cleanup(paths []string) {
	for _, path := range paths {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			p.log.Warn("Cleanup failed for '%s': %v", path, err)
		}
	}
}

// sanitizeIdentifier makes a caller-supplied post identifier safe for use in
// temp file names.
func sanitizeIdentifier(identifier string) string {
	if identifier == "" {
		return "post"
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, identifier)
}
