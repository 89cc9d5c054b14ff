// Package workflow holds the approval workflow state machine. A Workspace is
// the state of one signed-in browser session: who is signed in, the platform
// credentials, the open dialogs and the upload form. The video collection is
// shared between workspaces.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/metrics"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/notify"
	"github.com/grvbrk/yt_approval_hub/internal/platform"
	"github.com/grvbrk/yt_approval_hub/internal/store"
)

const (
	approvedMessage = "Video successfully uploaded to YouTube!"
	failedMessage   = "Failed to upload video to YouTube. Please try again."
	stalePrefix     = "Video is no longer pending: "
)

type Deps struct {
	Videos     store.VideoStore
	Uploader   platform.Uploader
	Publisher  notify.Publisher
	Logger     zerolog.Logger
	Demo       DemoCredentials
	InboxLimit int
	// Context bounds every approval task. Cancelling it aborts outstanding uploads.
	Context context.Context

	claims *approvalClaims
}

type Workspace struct {
	ID     string
	Logger zerolog.Logger

	mu         sync.Mutex
	session    models.Session
	creds      *models.Credentials
	authDialog AuthDialog
	linkDialog LinkDialog
	upload     UploadForm
	// deferred is the video whose approval was blocked on missing credentials.
	deferred string
	inflight map[string]*ApprovalTask
	claims   *approvalClaims
	lastSeen time.Time

	videos    store.VideoStore
	uploader  platform.Uploader
	publisher notify.Publisher
	inbox     *notify.Inbox
	demo      DemoCredentials
	ctx       context.Context
	wg        sync.WaitGroup
	now       func() time.Time
}

func NewWorkspace(id string, deps Deps) *Workspace {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	demo := deps.Demo
	if demo == (DemoCredentials{}) {
		demo = DefaultDemoCredentials
	}
	claims := deps.claims
	if claims == nil {
		claims = newApprovalClaims()
	}

	w := &Workspace{
		ID:         id,
		Logger:     deps.Logger.With().Str("workspace_id", id).Logger(),
		authDialog: NewAuthDialog(),
		inflight:   make(map[string]*ApprovalTask),
		claims:     claims,
		videos:     deps.Videos,
		uploader:   deps.Uploader,
		publisher:  publisher,
		inbox:      notify.NewInbox(deps.InboxLimit),
		demo:       demo,
		ctx:        ctx,
		now:        time.Now,
	}
	w.lastSeen = w.now()
	return w
}

// Touch records activity; idle workspaces are evicted by Registry.Sweep.
func (w *Workspace) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = w.now()
}

// idleSince reports when the workspace was last used and whether it still
// has approvals running.
func (w *Workspace) idleSince() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen, len(w.inflight) > 0
}

func (w *Workspace) Session() models.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

func (w *Workspace) HasCredentials() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.creds != nil
}

// Auth dialog

func (w *Workspace) OpenAuthDialog() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.authDialog.Show()
}

func (w *Workspace) CloseAuthDialog() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.authDialog.Hide()
}

func (w *Workspace) SelectRole(role models.Role) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.authDialog.SelectRole(role)
}

func (w *Workspace) BackAuthDialog() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.authDialog.Back()
}

// Login submits the auth form. On success the session is signed in with the
// role chosen earlier; a creator without credentials is sent to the link dialog.
func (w *Workspace) Login(email, password string) (models.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.Authenticated {
		return w.session, ErrAlreadySignedIn
	}

	pendingRole := w.authDialog.Role
	role, err := w.authDialog.Submit(email, password, w.demo)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			metrics.RecordLogin(string(pendingRole), "invalid")
			w.Logger.Info().Str("role", string(pendingRole)).Msg("login rejected")
		}
		return w.session, err
	}

	w.session = models.Session{Authenticated: true, Role: role}
	metrics.RecordLogin(string(role), "success")
	w.Logger.Info().Str("role", string(role)).Msg("signed in")

	if role == models.RoleCreator && w.creds == nil {
		w.linkDialog.Show()
	}
	return w.session, nil
}

// Logout resets the session and forgets the platform credentials. Approvals
// already running are left to finish.
func (w *Workspace) Logout() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.session = models.Session{}
	w.creds = nil
	w.deferred = ""
	w.linkDialog = LinkDialog{}
	w.authDialog = NewAuthDialog()
	w.upload = UploadForm{}
	w.Logger.Info().Msg("signed out")
}

// Platform link dialog

func (w *Workspace) OpenLinkDialog() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleCreator); err != nil {
		return err
	}
	w.linkDialog.Show()
	return nil
}

func (w *Workspace) CloseLinkDialog() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.linkDialog.Hide()
	if w.deferred != "" {
		w.Logger.Debug().Str("video_id", w.deferred).Msg("dropping deferred approval")
		w.deferred = ""
	}
}

// LinkPlatform stores the credential pair. If an approval was blocked waiting
// for credentials it is resumed and its task returned.
func (w *Workspace) LinkPlatform(clientID, clientSecret string) (*ApprovalTask, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleCreator); err != nil {
		return nil, err
	}

	creds, err := w.linkDialog.Submit(clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	w.creds = &creds
	w.Logger.Info().Str("client_id", creds.ClientID).Msg("platform linked")

	videoID := w.deferred
	w.deferred = ""
	if videoID == "" {
		return nil, nil
	}

	video, err := w.approvableLocked(videoID)
	if err == nil {
		var task *ApprovalTask
		if task, err = w.startApprovalLocked(video); err == nil {
			return task, nil
		}
	}
	w.Logger.Info().Err(err).Str("video_id", videoID).Msg("deferred approval not resumed")
	return nil, nil
}

// Approval

// Approve starts the simulated platform upload for a pending record. Without
// credentials the link dialog opens instead and the record is left alone.
func (w *Workspace) Approve(videoID string) (*ApprovalTask, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleCreator); err != nil {
		return nil, err
	}

	video, err := w.approvableLocked(videoID)
	if err != nil {
		return nil, err
	}

	if w.creds == nil {
		w.linkDialog.Show()
		w.deferred = videoID
		metrics.RecordApproval("credentials_required", 0)
		return nil, ErrCredentialsRequired
	}

	return w.startApprovalLocked(video)
}

func (w *Workspace) approvableLocked(videoID string) (models.Video, error) {
	video, err := w.videos.GetVideoByID(videoID)
	if err != nil {
		return models.Video{}, err
	}
	if !video.Status.CanTransitionTo(models.StatusApproved) {
		return video, fmt.Errorf("approve video %q (%s): %w", videoID, video.Status, models.ErrInvalidTransition)
	}
	if w.claims.isHeld(videoID) {
		return video, fmt.Errorf("approve video %q: %w", videoID, ErrApprovalInProgress)
	}
	return video, nil
}

// startApprovalLocked claims the record across all workspaces before starting
// the upload; losing the claim means another session is already uploading it.
func (w *Workspace) startApprovalLocked(video models.Video) (*ApprovalTask, error) {
	if !w.claims.claim(video.ID, w.ID) {
		return nil, fmt.Errorf("approve video %q: %w", video.ID, ErrApprovalInProgress)
	}

	task := newApprovalTask(video.ID, w.now())
	creds := *w.creds
	w.inflight[video.ID] = task

	w.Logger.Info().Str("video_id", video.ID).Str("task_id", task.ID).Msg("approval started")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		err := w.uploader.Upload(w.ctx, video, creds)
		w.completeApproval(task, err)
	}()

	return task, nil
}

// completeApproval re-checks that the record is still pending before marking it
// approved; a reject that landed meanwhile wins. The record stays in flight
// until its status is settled so a second approve cannot slip in.
func (w *Workspace) completeApproval(task *ApprovalTask, uploadErr error) {
	elapsed := w.now().Sub(task.Started_At).Seconds()
	log := w.Logger.With().Str("video_id", task.VideoID).Str("task_id", task.ID).Logger()

	var (
		video   models.Video
		err     = uploadErr
		level   notify.Level
		message string
	)

	switch {
	case uploadErr != nil:
		log.Error().Err(uploadErr).Msg("platform upload failed")
		metrics.RecordApproval("failed", elapsed)
		video, _ = w.videos.GetVideoByID(task.VideoID)
		level, message = notify.LevelError, failedMessage
	default:
		video, err = w.videos.Transition(task.VideoID, models.StatusPending, models.StatusApproved)
		if err != nil {
			log.Warn().Err(err).Msg("approval completed but record changed")
			metrics.RecordApproval("stale", elapsed)
			level, message = notify.LevelInfo, stalePrefix+video.Title
		} else {
			log.Info().Msg("video approved")
			metrics.RecordApproval("approved", elapsed)
			level, message = notify.LevelSuccess, approvedMessage
		}
	}

	w.mu.Lock()
	delete(w.inflight, task.VideoID)
	w.claims.release(task.VideoID, w.ID)
	w.mu.Unlock()

	w.notify(level, message, task.VideoID)
	task.finish(video, err)
}

// Reject is synchronous and needs no credentials.
func (w *Workspace) Reject(videoID string) (models.Video, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleCreator); err != nil {
		return models.Video{}, err
	}

	video, err := w.videos.Transition(videoID, models.StatusPending, models.StatusRejected)
	if err != nil {
		return video, err
	}

	metrics.RecordRejection()
	w.Logger.Info().Str("video_id", videoID).Msg("video rejected")
	return video, nil
}

// Upload form

func (w *Workspace) SetUploadFile(ref models.FileRef, content []byte, source FileSource) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleEditor); err != nil {
		return err
	}

	if err := w.upload.SetFile(ref, content); err != nil {
		metrics.RecordUpload(ref.MediaType, "ignored")
		w.Logger.Info().Err(err).Str("file", ref.Name).Str("source", string(source)).Msg("file ignored")
		return err
	}

	metrics.RecordUpload(ref.MediaType, "selected")
	w.Logger.Debug().Str("file", ref.Name).Str("source", string(source)).Msg("file selected")
	return nil
}

func (w *Workspace) RemoveUploadFile() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleEditor); err != nil {
		return err
	}
	w.upload.RemoveFile()
	return nil
}

func (w *Workspace) SetUploadMetadata(title, description string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleEditor); err != nil {
		return err
	}
	w.upload.SetMetadata(title, description)
	return nil
}

func (w *Workspace) UploadState() UploadForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.upload
}

// SubmitUpload prepends one pending record built from the form and clears it.
func (w *Workspace) SubmitUpload() (models.Video, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireRoleLocked(models.RoleEditor); err != nil {
		return models.Video{}, err
	}

	nv, err := w.upload.Submit()
	if err != nil {
		return models.Video{}, err
	}

	video, err := w.videos.CreateVideo(nv)
	if err != nil {
		return models.Video{}, fmt.Errorf("create video: %w", err)
	}

	metrics.RecordUpload(nv.File.MediaType, "submitted")
	w.Logger.Info().Str("video_id", video.ID).Str("title", video.Title).Msg("video uploaded")
	return video, nil
}

// Notifications

func (w *Workspace) Notifications() []notify.Notification {
	return w.inbox.Drain()
}

func (w *Workspace) notify(level notify.Level, message, videoID string) {
	n := notify.Notification{
		WorkspaceID: w.ID,
		Level:       level,
		Message:     message,
		VideoID:     videoID,
		Created_At:  w.now(),
	}
	w.inbox.Push(n)

	if err := w.publisher.Publish(w.ctx, n); err != nil {
		w.Logger.Warn().Err(err).Msg("failed to publish notification")
	}
}

// Wait blocks until every approval task started by this workspace has finished.
func (w *Workspace) Wait() {
	w.wg.Wait()
}

func (w *Workspace) requireRoleLocked(role models.Role) error {
	if !w.session.Authenticated {
		return ErrNotSignedIn
	}
	if w.session.Role != role {
		return fmt.Errorf("%s required: %w", role, ErrForbidden)
	}
	return nil
}
