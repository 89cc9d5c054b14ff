// Package platform stands in for the video-hosting platform. Nothing here talks
// to a real service: uploads are a fixed delay with an optional simulated failure.
package platform

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

var (
	ErrUploadFailed       = errors.New("platform upload failed")
	ErrMissingCredentials = errors.New("platform credentials missing")
)

type Uploader interface {
	Upload(ctx context.Context, video models.Video, creds models.Credentials) error
}

type SimulatedUploader struct {
	Delay time.Duration
	// FailureRate is the probability in [0,1] that an upload fails.
	FailureRate float64
	// Fail, when set, decides failure instead of FailureRate.
	Fail func(models.Video) bool
}

func NewSimulatedUploader(delay time.Duration, failureRate float64) *SimulatedUploader {
	return &SimulatedUploader{Delay: delay, FailureRate: failureRate}
}

func (s *SimulatedUploader) Upload(ctx context.Context, video models.Video, creds models.Credentials) error {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return ErrMissingCredentials
	}

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("upload video %s: %w", video.ID, ctx.Err())
	case <-timer.C:
	}

	if s.failed(video) {
		return fmt.Errorf("upload video %s: %w", video.ID, ErrUploadFailed)
	}
	return nil
}

func (s *SimulatedUploader) failed(video models.Video) bool {
	if s.Fail != nil {
		return s.Fail(video)
	}
	return s.FailureRate > 0 && rand.Float64() < s.FailureRate
}
