package auth

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/middlewares"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

type Auth interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

// DemoAuth drives the sign-in dialog. Credentials are checked against the
// fixed demo pair configured on each workspace.
type DemoAuth struct {
	Logger zerolog.Logger
}

func NewDemoAuth(logger zerolog.Logger) *DemoAuth {
	return &DemoAuth{Logger: logger}
}

type selectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=creator editor"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *DemoAuth) OpenDialog(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}
	ws.OpenAuthDialog()
	d.writeView(w, ws, http.StatusOK)
}

func (d *DemoAuth) CloseDialog(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}
	ws.CloseAuthDialog()
	d.writeView(w, ws, http.StatusOK)
}

func (d *DemoAuth) BackDialog(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}
	if err := ws.BackAuthDialog(); err != nil {
		d.writeError(w, ws, err)
		return
	}
	d.writeView(w, ws, http.StatusOK)
}

func (d *DemoAuth) SelectRole(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}

	var req selectRoleRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		d.Logger.Info().Err(err).Msg("bad select role request")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": err.Error()})
		return
	}

	role, err := models.ParseRole(req.Role)
	if err == nil {
		err = ws.SelectRole(role)
	}
	if err != nil {
		d.writeError(w, ws, err)
		return
	}
	d.writeView(w, ws, http.StatusOK)
}

// Login submits the auth form. A wrong pair is not a malformed request: the
// dialog stays on the form with its inline error and the view is returned.
func (d *DemoAuth) Login(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}

	var req loginRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		d.Logger.Info().Err(err).Msg("bad login request")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": err.Error()})
		return
	}

	if _, err := ws.Login(req.Email, req.Password); err != nil {
		d.writeError(w, ws, err)
		return
	}
	d.writeView(w, ws, http.StatusOK)
}

func (d *DemoAuth) Logout(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}
	ws.Logout()
	d.writeView(w, ws, http.StatusOK)
}

// AuthUser reports the current session and screen.
func (d *DemoAuth) AuthUser(w http.ResponseWriter, r *http.Request) {
	ws, ok := d.workspace(w, r)
	if !ok {
		return
	}
	d.writeView(w, ws, http.StatusOK)
}

func (d *DemoAuth) workspace(w http.ResponseWriter, r *http.Request) (*workflow.Workspace, bool) {
	ws, ok := middlewares.GetWorkspaceFromContext(r)
	if !ok {
		d.Logger.Error().Msg("no workspace found in context")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return nil, false
	}
	return ws, true
}

func (d *DemoAuth) writeView(w http.ResponseWriter, ws *workflow.Workspace, status int) {
	view, err := ws.View()
	if err != nil {
		d.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}
	utils.WriteJSON(w, status, utils.Envelope{"data": view})
}

func (d *DemoAuth) writeError(w http.ResponseWriter, ws *workflow.Workspace, err error) {
	status, msg := utils.StatusForError(err)
	if status == http.StatusInternalServerError {
		d.Logger.Error().Err(err).Msg("auth dialog error")
	}

	view, verr := ws.View()
	if verr != nil {
		utils.WriteJSON(w, status, utils.Envelope{"error": msg})
		return
	}
	utils.WriteJSON(w, status, utils.Envelope{"error": msg, "data": view})
}
