package store

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

func newUpload(title string) models.NewVideo {
	return models.NewVideo{
		File:        models.FileRef{Name: title + ".mp4", MediaType: "video/mp4"},
		Title:       title,
		Description: "desc",
	}
}

func TestMemoryVideoStore_CreatePrepends(t *testing.T) {
	s := NewMemoryVideoStore(models.DemoVideos())

	v, err := s.CreateVideo(newUpload("third"))
	require.NoError(t, err)
	assert.Equal(t, "3", v.ID)

	all, err := s.GetVideos()
	require.NoError(t, err)
	ids := []string{all[0].ID, all[1].ID, all[2].ID}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
}

func TestMemoryVideoStore_GetVideosReturnsCopy(t *testing.T) {
	s := NewMemoryVideoStore(models.DemoVideos())

	all, err := s.GetVideos()
	require.NoError(t, err)
	all[0].Status = models.StatusApproved

	v, err := s.GetVideoByID(all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, v.Status)
}

func TestMemoryVideoStore_Transition(t *testing.T) {
	s := NewMemoryVideoStore(models.DemoVideos())

	v, err := s.Transition("1", models.StatusPending, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, v.Status)

	_, err = s.Transition("1", models.StatusPending, models.StatusRejected)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = s.Transition("1", models.StatusApproved, models.StatusPending)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = s.Transition("nope", models.StatusPending, models.StatusRejected)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestMemoryVideoStore_GetVideosByStatus(t *testing.T) {
	s := NewMemoryVideoStore(models.DemoVideos())
	_, err := s.Transition("2", models.StatusPending, models.StatusRejected)
	require.NoError(t, err)

	pending, err := s.GetVideosByStatus(true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "1", pending[0].ID)

	decided, err := s.GetVideosByStatus(false)
	require.NoError(t, err)
	require.Len(t, decided, 1)
	assert.Equal(t, "2", decided[0].ID)
}

func TestMemoryVideoStore_ConcurrentCreatesHaveUniqueIDs(t *testing.T) {
	s := NewMemoryVideoStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateVideo(newUpload(strconv.Itoa(i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.GetVideos()
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, v := range all {
		assert.False(t, seen[v.ID], "duplicate id %s", v.ID)
		seen[v.ID] = true
	}
	assert.Len(t, seen, 50)
}
