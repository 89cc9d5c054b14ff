package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

// sniffLen is how much of an uploaded file is kept for content detection.
const sniffLen = 3072

type UploadHandler struct {
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

func NewUploadHandler(logger zerolog.Logger, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

type metadataRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=5000"`
}

func uploadView(form workflow.UploadForm) workflow.UploadView {
	return workflow.UploadView{UploadForm: form, CanSubmit: form.CanSubmit()}
}

func (uh *UploadHandler) HandlerGetUploadForm(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(uh.Logger, w, r)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": uploadView(ws.UploadState())})
}

// HandlerSetFile takes a multipart "file" part. Drag-and-drop and the file
// browser both post here; "source" says which one was used.
func (uh *UploadHandler) HandlerSetFile(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(uh.Logger, w, r)
	if !ok {
		return
	}

	if uh.MaxUploadBytes > 0 {
		if r.ContentLength > uh.MaxUploadBytes {
			utils.WriteJSON(w, http.StatusRequestEntityTooLarge, utils.Envelope{"error": "File too large"})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, uh.MaxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.WriteJSON(w, http.StatusRequestEntityTooLarge, utils.Envelope{"error": "File too large"})
			return
		}
		uh.Logger.Info().Err(err).Msg("bad upload request")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "a file is required"})
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		uh.Logger.Error().Err(err).Msg("error reading uploaded file")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
		return
	}

	ref := models.FileRef{
		Name:      header.Filename,
		Size:      header.Size,
		MediaType: header.Header.Get("Content-Type"),
	}
	source := workflow.ParseFileSource(r.FormValue("source"))

	if err := ws.SetUploadFile(ref, head[:n], source); err != nil {
		status, msg := utils.StatusForError(err)
		if status == http.StatusInternalServerError {
			uh.Logger.Error().Err(err).Msg("error setting upload file")
		}
		utils.WriteJSON(w, status, utils.Envelope{"error": msg, "data": uploadView(ws.UploadState())})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": uploadView(ws.UploadState())})
}

func (uh *UploadHandler) HandlerRemoveFile(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(uh.Logger, w, r)
	if !ok {
		return
	}

	if err := ws.RemoveUploadFile(); err != nil {
		status, msg := utils.StatusForError(err)
		utils.WriteJSON(w, status, utils.Envelope{"error": msg})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": uploadView(ws.UploadState())})
}

func (uh *UploadHandler) HandlerSetMetadata(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(uh.Logger, w, r)
	if !ok {
		return
	}

	var req metadataRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		uh.Logger.Info().Err(err).Msg("bad metadata request")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": err.Error()})
		return
	}

	if err := ws.SetUploadMetadata(req.Title, req.Description); err != nil {
		status, msg := utils.StatusForError(err)
		utils.WriteJSON(w, status, utils.Envelope{"error": msg})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": uploadView(ws.UploadState())})
}

func (uh *UploadHandler) HandlerSubmit(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFromRequest(uh.Logger, w, r)
	if !ok {
		return
	}

	video, err := ws.SubmitUpload()
	if err != nil {
		status, msg := utils.StatusForError(err)
		if status == http.StatusInternalServerError {
			uh.Logger.Error().Err(err).Msg("error submitting upload")
		}
		utils.WriteJSON(w, status, utils.Envelope{"error": msg, "data": uploadView(ws.UploadState())})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{"video": video, "data": uploadView(ws.UploadState())})
}
