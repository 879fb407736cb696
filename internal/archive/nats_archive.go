// Package archive provides an optional NATS JetStream object-store copy of
// finished videos. The archive is a best-effort convenience: the pipeline
// treats every archive failure as log-and-continue.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsArchive implements the core.VideoArchive interface on a JetStream
// object-store bucket.
type NatsArchive struct {
	store  nats.ObjectStore
	bucket string
}

// New creates (or binds to) the object-store bucket holding finished videos.
func New(jetstreamContext nats.JetStreamContext, bucketName string) (*NatsArchive, error) {
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Finished blog videos (%s).", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("failed to create video archive bucket '%s': %w", bucketName, err)
		}

		store, err = jetstreamContext.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to video archive bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsArchive{
		store:  store,
		bucket: bucketName,
	}, nil
}

// Upload stores a finished video under the given key.
func (a *NatsArchive) Upload(_ context.Context, key string, data []byte) error {
	_, err := a.store.Put(&nats.ObjectMeta{Name: key}, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to put video '%s' into bucket '%s': %w", key, a.bucket, err)
	}

	return nil
}

// Download retrieves an archived video by key.
func (a *NatsArchive) Download(_ context.Context, key string) ([]byte, error) {
	obj, err := a.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get video '%s' from bucket '%s': %w", key, a.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read video '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close video object '%s': %w", key, closeErr)
	}

	return data, nil
}
