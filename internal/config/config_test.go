// Package config_test tests the configuration loading for the blog-video-service.
package config_test

import (
	"testing"

	"github.com/book-expert/blog-video-service/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigTOMLMapping(t *testing.T) {
	t.Parallel()

	tomlData := `
[http]
addr = ":9090"

[tts]
language = "en"

[images]
max_images = 3

[video]
output_width = 720
frame_rate = 30

[wordpress]
base_url = "https://blog.example.com"
user = "editor"
app_password = "abcd efgh"

[nats]
url = "nats://127.0.0.1:4222"
video_archive_bucket = "VIDEOS"
video_created_subject = "video.created"

[paths]
base_logs_dir = "/var/log/blog-video"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "en", cfg.TTS.Language)
	assert.Equal(t, 3, cfg.Images.MaxImages)
	assert.Equal(t, 720, cfg.Video.OutputWidth)
	assert.Equal(t, 30, cfg.Video.FrameRate)
	assert.Equal(t, "https://blog.example.com", cfg.WordPress.BaseURL)
	assert.Equal(t, "editor", cfg.WordPress.User)
	assert.Equal(t, "abcd efgh", cfg.WordPress.AppPassword)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "VIDEOS", cfg.NATS.VideoArchiveBucket)
	assert.Equal(t, "video.created", cfg.NATS.VideoCreatedSubject)
	assert.Equal(t, "/var/log/blog-video", cfg.Paths.BaseLogsDir)
}

func TestUploadConfigured(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	assert.False(t, cfg.UploadConfigured())

	cfg.WordPress.BaseURL = "https://blog.example.com"
	cfg.WordPress.User = "editor"
	assert.False(t, cfg.UploadConfigured())

	cfg.WordPress.AppPassword = "abcd efgh"
	assert.True(t, cfg.UploadConfigured())
}

func TestNATSConfigured(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	assert.False(t, cfg.NATSConfigured())

	cfg.NATS.URL = "nats://127.0.0.1:4222"
	assert.True(t, cfg.NATSConfigured())
}
