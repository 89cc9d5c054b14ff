package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/middlewares"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

func workspaceFromRequest(logger zerolog.Logger, w http.ResponseWriter, r *http.Request) (*workflow.Workspace, bool) {
	ws, ok := middlewares.GetWorkspaceFromContext(r)
	if !ok {
		logger.Error().Msg("no workspace found in context")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return nil, false
	}
	return ws, true
}

// writeWorkflowError maps err to a status and attaches the current view when
// it can be built, so the client can re-render dialogs opened by the failure.
func writeWorkflowError(logger zerolog.Logger, w http.ResponseWriter, ws *workflow.Workspace, err error) {
	status, msg := utils.StatusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("workflow error")
	}

	env := utils.Envelope{"error": msg}
	if view, verr := ws.View(); verr == nil {
		env["data"] = view
	}
	utils.WriteJSON(w, status, env)
}
