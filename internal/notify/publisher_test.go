// Package notify_test tests the completion event publisher.
package notify_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/book-expert/blog-video-service/internal/notify"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversEvent(t *testing.T) {
	t.Parallel()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	natsServer := test.RunServer(&opts)
	defer natsServer.Shutdown()

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	require.NoError(t, err)
	defer natsConnection.Close()

	log, err := logger.New(t.TempDir(), "test.log")
	require.NoError(t, err)

	subscription, err := natsConnection.SubscribeSync("blog.video.created")
	require.NoError(t, err)

	publisher := notify.NewPublisher(natsConnection, "blog.video.created", log)

	err = publisher.Publish(notify.VideoCreatedEvent{
		RequestID:       "req-1",
		PostID:          "42",
		Title:           "T",
		VideoURL:        "https://blog.example.com/wp-content/uploads/video_42.mp4",
		Slides:          3,
		DurationSeconds: 12.5,
	})
	require.NoError(t, err)

	msg, err := subscription.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var event notify.VideoCreatedEvent

	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, "42", event.PostID)
	assert.Equal(t, 3, event.Slides)
	assert.NotEmpty(t, event.CreatedAt)
}
