package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/yt_approval_hub/internal/middlewares"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/platform"
	"github.com/grvbrk/yt_approval_hub/internal/store"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

type viewResponse struct {
	Error        string        `json:"error"`
	Data         workflow.View `json:"data"`
	AuthorizeURL string        `json:"authorize_url"`
	Task         *struct {
		ID      string `json:"id"`
		VideoID string `json:"video_id"`
	} `json:"task"`
}

func newTestWorkspace(t *testing.T) (*workflow.Workspace, *store.MemoryVideoStore) {
	t.Helper()
	videos := store.NewMemoryVideoStore(models.DemoVideos())
	ws := workflow.NewWorkspace("ws-auth", workflow.Deps{
		Videos:   videos,
		Uploader: platform.NewSimulatedUploader(0, 0),
		Logger:   zerolog.Nop(),
	})
	return ws, videos
}

func call(t *testing.T, ws *workflow.Workspace, h http.HandlerFunc, body string) (int, viewResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), middlewares.WorkspaceContextKey, ws))

	rr := httptest.NewRecorder()
	h(rr, req)

	var resp viewResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp
}

func TestLoginFlow(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	d := NewDemoAuth(zerolog.Nop())

	code, resp := call(t, ws, d.AuthUser, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, workflow.ScreenWelcome, resp.Data.Screen)
	assert.False(t, resp.Data.AuthDialog.Open)

	code, resp = call(t, ws, d.OpenDialog, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Data.AuthDialog.Open)
	assert.Equal(t, workflow.AuthStepRoleSelect, resp.Data.AuthDialog.Step)
	assert.Equal(t, "Choose Account Type", resp.Data.AuthHeading)

	code, resp = call(t, ws, d.SelectRole, `{"role":"editor"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, workflow.AuthStepAuthForm, resp.Data.AuthDialog.Step)
	assert.Equal(t, "Sign in as Editor", resp.Data.AuthHeading)

	code, resp = call(t, ws, d.Login, `{"email":"demo@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", resp.Error)
	assert.Equal(t, "Invalid email or password", resp.Data.AuthDialog.Error)
	assert.False(t, resp.Data.Session.Authenticated)

	code, resp = call(t, ws, d.Login, `{"email":"demo@example.com","password":"password"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Data.Session.Authenticated)
	assert.Equal(t, models.RoleEditor, resp.Data.Session.Role)
	assert.Equal(t, workflow.ScreenEditorDashboard, resp.Data.Screen)
	assert.False(t, resp.Data.AuthDialog.Open)

	code, resp = call(t, ws, d.Logout, "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Data.Session.Authenticated)
	assert.Equal(t, workflow.ScreenWelcome, resp.Data.Screen)
}

func TestSelectRoleRejectsUnknownRole(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	d := NewDemoAuth(zerolog.Nop())
	call(t, ws, d.OpenDialog, "")

	code, _ := call(t, ws, d.SelectRole, `{"role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, ws, d.SelectRole, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDialogActionsWhileClosed(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	d := NewDemoAuth(zerolog.Nop())

	code, _ := call(t, ws, d.SelectRole, `{"role":"creator"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, ws, d.BackDialog, "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestBackReturnsToRoleSelect(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	d := NewDemoAuth(zerolog.Nop())
	call(t, ws, d.OpenDialog, "")
	call(t, ws, d.SelectRole, `{"role":"creator"}`)

	code, resp := call(t, ws, d.BackDialog, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, workflow.AuthStepRoleSelect, resp.Data.AuthDialog.Step)

	code, resp = call(t, ws, d.CloseDialog, "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Data.AuthDialog.Open)
}

func TestMissingWorkspace(t *testing.T) {
	d := NewDemoAuth(zerolog.Nop())
	rr := httptest.NewRecorder()
	d.AuthUser(rr, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func signInCreator(t *testing.T, ws *workflow.Workspace) {
	t.Helper()
	ws.OpenAuthDialog()
	require.NoError(t, ws.SelectRole(models.RoleCreator))
	_, err := ws.Login("demo@example.com", "password")
	require.NoError(t, err)
}

func TestPlatformLink(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	signInCreator(t, ws)
	p := NewPlatformAuth(zerolog.Nop(), "http://localhost:8080/callback")

	code, resp := call(t, ws, p.OpenDialog, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Data.LinkDialog.Open)

	code, resp = call(t, ws, p.Link, `{"client_id":"abc","client_secret":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Please fill in all fields", resp.Data.LinkDialog.Error)
	assert.True(t, resp.Data.LinkDialog.Open)

	code, resp = call(t, ws, p.Link, `{"client_id":"abc","client_secret":"shh"}`)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Data.LinkDialog.Open)
	assert.False(t, resp.Data.ConnectPlatform)
	assert.Nil(t, resp.Task)
	assert.True(t, ws.HasCredentials())

	u, err := url.Parse(resp.AuthorizeURL)
	require.NoError(t, err)
	assert.Equal(t, "abc", u.Query().Get("client_id"))
	assert.Equal(t, ws.ID, u.Query().Get("state"))
	assert.Contains(t, u.Query().Get("scope"), platform.YouTubeUploadScope)
}

func TestPlatformLinkResumesDeferredApproval(t *testing.T) {
	ws, videos := newTestWorkspace(t)
	signInCreator(t, ws)
	ws.CloseLinkDialog()

	_, err := ws.Approve("2")
	require.ErrorIs(t, err, workflow.ErrCredentialsRequired)

	p := NewPlatformAuth(zerolog.Nop(), "")
	code, resp := call(t, ws, p.Link, `{"client_id":"abc","client_secret":"shh"}`)
	require.Equal(t, http.StatusAccepted, code)
	require.NotNil(t, resp.Task)
	assert.Equal(t, "2", resp.Task.VideoID)
	assert.Empty(t, resp.AuthorizeURL)

	ws.Wait()
	video, err := videos.GetVideoByID("2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, video.Status)
}

func TestPlatformCloseDropsDialog(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	signInCreator(t, ws)
	p := NewPlatformAuth(zerolog.Nop(), "")

	code, resp := call(t, ws, p.CloseDialog, "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Data.LinkDialog.Open)
	assert.True(t, resp.Data.ConnectPlatform)
}
