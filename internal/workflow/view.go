package workflow

import (
	"fmt"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

type Screen string

const (
	ScreenWelcome          Screen = "welcome"
	ScreenCreatorDashboard Screen = "creator_dashboard"
	ScreenEditorDashboard  Screen = "editor_dashboard"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// VideoCard is one rendered record. Actions are only offered while pending.
type VideoCard struct {
	models.Video
	StatusLabel string   `json:"status_label"`
	Actions     []Action `json:"actions"`
	Approving   bool     `json:"approving"`
}

type UploadView struct {
	UploadForm
	CanSubmit bool `json:"can_submit"`
}

type View struct {
	Screen      Screen         `json:"screen"`
	Session     models.Session `json:"session"`
	NavLabel    string         `json:"nav_label,omitempty"`
	AuthDialog  AuthDialog     `json:"auth_dialog"`
	AuthHeading string         `json:"auth_heading"`
	LinkDialog  LinkDialog     `json:"link_dialog"`

	// creator dashboard
	ConnectPlatform bool        `json:"connect_platform,omitempty"`
	Pending         []VideoCard `json:"pending,omitempty"`
	Previous        []VideoCard `json:"previous,omitempty"`

	// editor dashboard
	Upload        *UploadView `json:"upload,omitempty"`
	RecentUploads []VideoCard `json:"recent_uploads,omitempty"`
}

func (w *Workspace) View() (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Screen:      screenFor(w.session),
		Session:     w.session,
		AuthDialog:  w.authDialog,
		AuthHeading: w.authDialog.Heading(),
		LinkDialog:  w.linkDialog,
	}

	switch v.Screen {
	case ScreenWelcome:
		return v, nil

	case ScreenCreatorDashboard:
		v.NavLabel = "Creator Dashboard"
		v.ConnectPlatform = w.creds == nil

		pending, err := w.videos.GetVideosByStatus(true)
		if err != nil {
			return v, fmt.Errorf("list pending videos: %w", err)
		}
		previous, err := w.videos.GetVideosByStatus(false)
		if err != nil {
			return v, fmt.Errorf("list previous videos: %w", err)
		}
		v.Pending = w.cardsLocked(pending)
		v.Previous = w.cardsLocked(previous)
		return v, nil

	case ScreenEditorDashboard:
		v.NavLabel = "Editor Dashboard"
		v.Upload = &UploadView{UploadForm: w.upload, CanSubmit: w.upload.CanSubmit()}

		all, err := w.videos.GetVideos()
		if err != nil {
			return v, fmt.Errorf("list videos: %w", err)
		}
		v.RecentUploads = w.cardsLocked(all)
		return v, nil
	}

	return v, fmt.Errorf("unknown screen %q", v.Screen)
}

func screenFor(s models.Session) Screen {
	if !s.Authenticated {
		return ScreenWelcome
	}
	switch s.Role {
	case models.RoleCreator:
		return ScreenCreatorDashboard
	case models.RoleEditor:
		return ScreenEditorDashboard
	}
	return ScreenWelcome
}

func (w *Workspace) cardsLocked(videos []models.Video) []VideoCard {
	cards := make([]VideoCard, 0, len(videos))
	for _, video := range videos {
		card := VideoCard{
			Video:       video,
			StatusLabel: video.Status.Label(),
			Actions:     []Action{},
		}
		if video.Status == models.StatusPending && w.session.IsCreator() {
			card.Actions = []Action{ActionApprove, ActionReject}
			card.Approving = w.claims.isHeld(video.ID)
		}
		cards = append(cards, card)
	}
	return cards
}
