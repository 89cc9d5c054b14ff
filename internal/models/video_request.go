package models

import "time"

const (
	DefaultThumbnail = "https://images.unsplash.com/photo-1611162617474-5b21e879e113?w=800&auto=format&fit=crop&q=60"
	DefaultUploader  = "Current Editor"
	UploadDateLayout = "2006-01-02"
)

// NewVideo is what the upload form emits upstream on submit.
type NewVideo struct {
	File        FileRef `json:"file"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	UploadedBy  string  `json:"uploaded_by"`
}

// Record builds the pending record for id, dated at now.
func (nv NewVideo) Record(id string, now time.Time) Video {
	uploader := nv.UploadedBy
	if uploader == "" {
		uploader = DefaultUploader
	}
	file := nv.File
	return Video{
		ID:          id,
		Title:       nv.Title,
		Thumbnail:   DefaultThumbnail,
		Status:      StatusPending,
		UploadedBy:  uploader,
		UploadDate:  now.Format(UploadDateLayout),
		Description: nv.Description,
		File:        &file,
		Updated_At:  now,
	}
}

// DemoVideos are the two records the collection starts with.
func DemoVideos() []Video {
	return []Video{
		{
			ID:          "1",
			Title:       "Why React is Amazing in 2024",
			Thumbnail:   "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800&auto=format&fit=crop&q=60",
			Status:      StatusPending,
			UploadedBy:  "John Editor",
			UploadDate:  "2024-03-15",
			Description: "A deep dive into React's latest features and why it remains the top choice for web development.",
		},
		{
			ID:          "2",
			Title:       "Advanced TypeScript Tips",
			Thumbnail:   "https://images.unsplash.com/photo-1619410283995-43d9134e7656?w=800&auto=format&fit=crop&q=60",
			Status:      StatusPending,
			UploadedBy:  "Sarah Editor",
			UploadDate:  "2024-03-14",
			Description: "Exploring advanced TypeScript features that every developer should know.",
		},
	}
}
