package workflow

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

// FileSource records how a file reached the form. Both paths fill the same slot.
type FileSource string

const (
	FileSourceDrop   FileSource = "drop"
	FileSourceBrowse FileSource = "browse"
)

func ParseFileSource(s string) FileSource {
	if FileSource(s) == FileSourceDrop {
		return FileSourceDrop
	}
	return FileSourceBrowse
}

func IsVideoType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "video/")
}

type UploadForm struct {
	File        *models.FileRef `json:"file,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

// SetFile fills the file slot. A non-video file leaves the slot untouched.
// When content is given it is sniffed as well as the declared type.
func (f *UploadForm) SetFile(ref models.FileRef, content []byte) error {
	if !IsVideoType(ref.MediaType) {
		return fmt.Errorf("declared type %q: %w", ref.MediaType, ErrNotVideo)
	}

	if len(content) > 0 {
		detected := mimetype.Detect(content).String()
		if !IsVideoType(detected) {
			return fmt.Errorf("detected type %q: %w", detected, ErrNotVideo)
		}
	}

	f.File = &ref
	return nil
}

func (f *UploadForm) RemoveFile() {
	f.File = nil
}

func (f *UploadForm) SetMetadata(title, description string) {
	f.Title = title
	f.Description = description
}

func (f UploadForm) CanSubmit() bool {
	return f.File != nil && f.Title != "" && f.Description != ""
}

// Submit emits the new-record request and clears every field.
func (f *UploadForm) Submit() (models.NewVideo, error) {
	if !f.CanSubmit() {
		return models.NewVideo{}, ErrUploadNotReady
	}

	nv := models.NewVideo{
		File:        *f.File,
		Title:       f.Title,
		Description: f.Description,
	}
	*f = UploadForm{}
	return nv, nil
}
