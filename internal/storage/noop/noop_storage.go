// Package noop provides an ObjectStorage that discards uploads, used when
// no bucket is configured so the service still runs with zero setup.
package noop

import (
	"context"
	"log"

	"invparser/internal/port"
)

type noopStorage struct{}

// NewNoopStorage creates an ObjectStorage that logs and discards uploads.
func NewNoopStorage() port.ObjectStorage {
	return &noopStorage{}
}

func (s *noopStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	log.Printf("[NOOP STORAGE] discarding upload %s/%s (%d bytes)", input.Bucket, input.Key, input.Size)
	return &port.UploadOutput{Location: "noop://" + input.Key}, nil
}
