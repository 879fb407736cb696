// main package for the blog-video-service
package main

import (
	"fmt"
	"os"

	"github.com/book-expert/blog-video-service/internal/archive"
	"github.com/book-expert/blog-video-service/internal/config"
	"github.com/book-expert/blog-video-service/internal/core"
	"github.com/book-expert/blog-video-service/internal/images"
	"github.com/book-expert/blog-video-service/internal/notify"
	"github.com/book-expert/blog-video-service/internal/pipeline"
	"github.com/book-expert/blog-video-service/internal/server"
	"github.com/book-expert/blog-video-service/internal/tts"
	"github.com/book-expert/blog-video-service/internal/video"
	"github.com/book-expert/blog-video-service/internal/wordpress"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "blog-video-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration
	logsDir := cfg.Paths.BaseLogsDir
	if logsDir == "" {
		logsDir = os.TempDir()
	}

	finalLog, err := setupLogger(logsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	// 4. Wire the pipeline components
	videoArchive, publisher, err := setupNATS(cfg, finalLog)
	if err != nil {
		// The NATS integration is optional; a broken one is a
		// configuration problem worth failing on.
		finalLog.Error("Failed to set up NATS integration: %v", err)

		return fmt.Errorf("failed to set up NATS integration: %w", err)
	}

	if !cfg.UploadConfigured() {
		finalLog.Warn("WordPress credentials incomplete, media upload is disabled")
	}

	requestPipeline := pipeline.New(
		tts.NewClient(cfg.TTS.Language, finalLog),
		images.NewFetcher(cfg.Images.MaxImages, finalLog),
		video.NewAssembler(cfg.Video.OutputWidth, cfg.Video.FrameRate, finalLog),
		wordpress.NewClient(cfg.WordPress.BaseURL, cfg.WordPress.User, cfg.WordPress.AppPassword, finalLog),
		videoArchive,
		publisher,
		os.TempDir(),
		finalLog,
	)

	srv := server.New(requestPipeline, finalLog)

	finalLog.System("blog-video-service initialized, listening on %s", cfg.HTTP.Addr)

	return srv.Run(cfg.HTTP.Addr)
}

// setupNATS connects the optional archive and completion event publisher.
// Both are nil when no NATS URL is configured.
func setupNATS(cfg *config.Config, log *logger.Logger) (core.VideoArchive, pipeline.EventPublisher, error) {
	if !cfg.NATSConfigured() {
		return nil, nil, nil
	}

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	videoArchive, err := archive.New(jetstreamContext, cfg.NATS.VideoArchiveBucket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create video archive: %w", err)
	}

	publisher := notify.NewPublisher(natsConnection, cfg.NATS.VideoCreatedSubject, log)

	return videoArchive, publisher, nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
