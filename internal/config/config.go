// Package config provides the configuration structure for the blog-video-service.
package config

import (
	"fmt"
	"strings"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	env "github.com/caarlos0/env/v11"
)

// Defaults applied after loading.
const (
	DefaultHTTPAddr      = ":8080"
	DefaultLanguage      = "hi"
	DefaultMaxImages     = 5
	DefaultOutputWidth   = 1080
	DefaultFrameRate     = 24
	DefaultArchiveBucket = "BLOG_VIDEOS"
	DefaultVideoSubject  = "blog.video.created"
)

// HTTPConfig holds the configuration for the HTTP server.
type HTTPConfig struct {
	Addr string `toml:"addr" env:"HTTP_ADDR"`
}

// TTSConfig holds the configuration for the speech synthesizer.
type TTSConfig struct {
	Language string `toml:"language" env:"TTS_LANG"`
}

// ImagesConfig holds the configuration for the image acquirer.
type ImagesConfig struct {
	MaxImages int `toml:"max_images" env:"MAX_IMAGES"`
}

// VideoConfig holds the configuration for the slideshow assembler.
type VideoConfig struct {
	OutputWidth int `toml:"output_width" env:"VIDEO_OUTPUT_WIDTH"`
	FrameRate   int `toml:"frame_rate" env:"VIDEO_FRAME_RATE"`
}

// WordPressConfig holds the credentials for the media upload target. Upload is
// silently disabled unless all three values are present.
type WordPressConfig struct {
	BaseURL     string `toml:"base_url" env:"WP_BASE_URL"`
	User        string `toml:"user" env:"WP_USER"`
	AppPassword string `toml:"app_password" env:"WP_APP_PASSWORD"`
}

// NATSConfig holds the optional NATS integration settings. An empty URL
// disables both the video archive and the completion event publisher.
type NATSConfig struct {
	URL                 string `toml:"url" env:"NATS_URL"`
	VideoArchiveBucket  string `toml:"video_archive_bucket" env:"NATS_VIDEO_ARCHIVE_BUCKET"`
	VideoCreatedSubject string `toml:"video_created_subject" env:"NATS_VIDEO_CREATED_SUBJECT"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir" env:"BASE_LOGS_DIR"`
}

// Config is the root configuration structure.
type Config struct {
	HTTP      HTTPConfig      `toml:"http"`
	TTS       TTSConfig       `toml:"tts"`
	Images    ImagesConfig    `toml:"images"`
	Video     VideoConfig     `toml:"video"`
	WordPress WordPressConfig `toml:"wordpress"`
	NATS      NATSConfig      `toml:"nats"`
	Paths     PathsConfig     `toml:"paths"`
}

// Load loads the configuration for the blog-video-service. The central
// configurator supplies the project TOML when one is present; environment
// variables override it so the service can run from the environment alone.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		log.Warn("No project configuration found, continuing with environment only: %v", err)
	}

	err = env.Parse(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment configuration: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// UploadConfigured reports whether all three WordPress credentials are set.
func (c *Config) UploadConfigured() bool {
	return c.WordPress.BaseURL != "" && c.WordPress.User != "" && c.WordPress.AppPassword != ""
}

// NATSConfigured reports whether the optional NATS integration is enabled.
func (c *Config) NATSConfigured() bool {
	return c.NATS.URL != ""
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}

	if c.TTS.Language == "" {
		c.TTS.Language = DefaultLanguage
	}

	if c.Images.MaxImages <= 0 {
		c.Images.MaxImages = DefaultMaxImages
	}

	if c.Video.OutputWidth <= 0 {
		c.Video.OutputWidth = DefaultOutputWidth
	}

	if c.Video.FrameRate <= 0 {
		c.Video.FrameRate = DefaultFrameRate
	}

	if c.NATS.VideoArchiveBucket == "" {
		c.NATS.VideoArchiveBucket = DefaultArchiveBucket
	}

	if c.NATS.VideoCreatedSubject == "" {
		c.NATS.VideoCreatedSubject = DefaultVideoSubject
	}

	c.WordPress.BaseURL = strings.TrimRight(c.WordPress.BaseURL, "/")
}
