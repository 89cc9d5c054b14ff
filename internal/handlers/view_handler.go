package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/notify"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
)

// ViewHandler serves the rendered screen and the notification inbox.
type ViewHandler struct {
	Logger zerolog.Logger
}

func NewViewHandler(logger zerolog.Logger) *ViewHandler {
	return &ViewHandler{Logger: logger}
}

func (vh *ViewHandler) HandlerGetView(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(vh.Logger, w, r)
	if !ok {
		return
	}

	view, err := ws.View()
	if err != nil {
		vh.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": view})
}

// HandlerGetNotifications drains the inbox; each notification is returned once.
func (vh *ViewHandler) HandlerGetNotifications(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(vh.Logger, w, r)
	if !ok {
		return
	}

	items := ws.Notifications()
	if items == nil {
		items = []notify.Notification{}
	}
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": items})
}
