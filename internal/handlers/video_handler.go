package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/store"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
)

type VideoHandler struct {
	VideoStore store.VideoStore
	Logger     zerolog.Logger
}

func NewVideoHandler(videoStore store.VideoStore, logger zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		VideoStore: videoStore,
		Logger:     logger,
	}
}

// HandlerGetVideos lists the shared collection newest-first. The optional
// status query narrows it to "pending" or "previous" (approved and rejected).
func (vh *VideoHandler) HandlerGetVideos(w http.ResponseWriter, r *http.Request) {
	var (
		videos []models.Video
		err    error
	)

	switch r.URL.Query().Get("status") {
	case "":
		videos, err = vh.VideoStore.GetVideos()
	case "pending":
		videos, err = vh.VideoStore.GetVideosByStatus(true)
	case "previous":
		videos, err = vh.VideoStore.GetVideosByStatus(false)
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "status must be pending or previous"})
		return
	}
	if err != nil {
		vh.Logger.Error().Err(err).Msg("error getting videos from store")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": videos})
}

func (vh *VideoHandler) HandlerGetVideoByID(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	video, err := vh.VideoStore.GetVideoByID(videoID)
	if errors.Is(err, store.ErrVideoNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"error": "Video not found"})
		return
	}
	if err != nil {
		vh.Logger.Error().Err(err).Str("video_id", videoID).Msg("error getting video")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": video})
}

// HandlerApproveVideo starts the platform upload and answers 202 with the
// task. Without linked credentials it answers 409 and the returned view has
// the link dialog open.
func (vh *VideoHandler) HandlerApproveVideo(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(vh.Logger, w, r)
	if !ok {
		return
	}

	videoID := chi.URLParam(r, "id")
	task, err := ws.Approve(videoID)
	if err != nil {
		writeWorkflowError(vh.Logger, w, ws, err)
		return
	}

	view, err := ws.View()
	if err != nil {
		vh.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, utils.Envelope{"task": task, "data": view})
}

func (vh *VideoHandler) HandlerRejectVideo(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(vh.Logger, w, r)
	if !ok {
		return
	}

	videoID := chi.URLParam(r, "id")
	video, err := ws.Reject(videoID)
	if err != nil {
		writeWorkflowError(vh.Logger, w, ws, err)
		return
	}

	view, err := ws.View()
	if err != nil {
		vh.Logger.Error().Err(err).Msg("error building view")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"video": video, "data": view})
}
