package store

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoStore interface {
	CreateVideo(nv models.NewVideo) (models.Video, error)
	GetVideos() ([]models.Video, error)
	GetVideoByID(id string) (models.Video, error)
	GetVideosByStatus(pending bool) ([]models.Video, error)
	Transition(id string, from models.Status, to models.Status) (models.Video, error)
}

// MemoryVideoStore keeps records newest-first. Records are never deleted.
type MemoryVideoStore struct {
	mu     sync.RWMutex
	videos []models.Video
	now    func() time.Time
}

func NewMemoryVideoStore(seed []models.Video) *MemoryVideoStore {
	videos := make([]models.Video, len(seed))
	copy(videos, seed)
	return &MemoryVideoStore{videos: videos, now: time.Now}
}

func (m *MemoryVideoStore) CreateVideo(nv models.NewVideo) (models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := strconv.Itoa(len(m.videos) + 1)
	video := nv.Record(id, m.now())

	m.videos = append([]models.Video{video}, m.videos...)
	return video, nil
}

func (m *MemoryVideoStore) GetVideos() ([]models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Video, len(m.videos))
	copy(out, m.videos)
	return out, nil
}

func (m *MemoryVideoStore) GetVideoByID(id string) (models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Video{}, fmt.Errorf("get video %q: %w", id, ErrVideoNotFound)
	}
	return m.videos[i], nil
}

// GetVideosByStatus splits the collection the way the creator dashboard does:
// pending records, or everything already decided.
func (m *MemoryVideoStore) GetVideosByStatus(pending bool) ([]models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Video
	for _, v := range m.videos {
		if (v.Status == models.StatusPending) == pending {
			out = append(out, v)
		}
	}
	return out, nil
}

// Transition moves a record from one status to another only if it is still in from.
func (m *MemoryVideoStore) Transition(id string, from models.Status, to models.Status) (models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Video{}, fmt.Errorf("transition video %q: %w", id, ErrVideoNotFound)
	}

	current := m.videos[i].Status
	if current != from {
		return m.videos[i], fmt.Errorf("transition video %q from %s: %w", id, current, models.ErrInvalidTransition)
	}

	next, err := current.TransitionTo(to)
	if err != nil {
		return m.videos[i], fmt.Errorf("transition video %q to %s: %w", id, to, err)
	}

	m.videos[i].Status = next
	m.videos[i].Updated_At = m.now()
	return m.videos[i], nil
}

func (m *MemoryVideoStore) indexOf(id string) int {
	for i := range m.videos {
		if m.videos[i].ID == id {
			return i
		}
	}
	return -1
}
