package auth

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/middlewares"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/platform"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
)

// PlatformAuth handles the "Connect YouTube" dialog on the creator dashboard.
type PlatformAuth struct {
	Logger      zerolog.Logger
	RedirectURL string
}

func NewPlatformAuth(logger zerolog.Logger, redirectURL string) *PlatformAuth {
	return &PlatformAuth{
		Logger:      logger,
		RedirectURL: redirectURL,
	}
}

type linkRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (p *PlatformAuth) OpenDialog(w http.ResponseWriter, r *http.Request) {
	ws, ok := middlewares.GetWorkspaceFromContext(r)
	if !ok {
		p.Logger.Error().Msg("no workspace found in context")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	if err := ws.OpenLinkDialog(); err != nil {
		status, msg := utils.StatusForError(err)
		utils.WriteJSON(w, status, utils.Envelope{"error": msg})
		return
	}

	view, err := ws.View()
	if err != nil {
		p.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": view})
}

func (p *PlatformAuth) CloseDialog(w http.ResponseWriter, r *http.Request) {
	ws, ok := middlewares.GetWorkspaceFromContext(r)
	if !ok {
		p.Logger.Error().Msg("no workspace found in context")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	ws.CloseLinkDialog()

	view, err := ws.View()
	if err != nil {
		p.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": view})
}

// Link stores the client id/secret pair for this workspace. If an approval was
// waiting on credentials its task is returned under "task".
func (p *PlatformAuth) Link(w http.ResponseWriter, r *http.Request) {
	ws, ok := middlewares.GetWorkspaceFromContext(r)
	if !ok {
		p.Logger.Error().Msg("no workspace found in context")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	var req linkRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		p.Logger.Info().Err(err).Msg("bad link request")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": err.Error()})
		return
	}

	task, err := ws.LinkPlatform(req.ClientID, req.ClientSecret)
	if err != nil {
		status, msg := utils.StatusForError(err)
		if status == http.StatusInternalServerError {
			p.Logger.Error().Err(err).Msg("error linking platform")
		}
		env := utils.Envelope{"error": msg}
		if view, verr := ws.View(); verr == nil {
			env["data"] = view
		}
		utils.WriteJSON(w, status, env)
		return
	}

	view, err := ws.View()
	if err != nil {
		p.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	env := utils.Envelope{"data": view}
	if p.RedirectURL != "" {
		creds := models.Credentials{ClientID: req.ClientID, ClientSecret: req.ClientSecret}
		env["authorize_url"] = platform.AuthURL(creds, p.RedirectURL, ws.ID)
	}
	if task != nil {
		env["task"] = task
		utils.WriteJSON(w, http.StatusAccepted, env)
		return
	}
	utils.WriteJSON(w, http.StatusOK, env)
}
