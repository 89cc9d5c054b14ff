package utils

import (
	"errors"
	"net/http"

	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/store"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

// StatusForError maps workflow errors onto HTTP status codes and the message
// shown to the client.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, workflow.ErrNotSignedIn):
		return http.StatusUnauthorized, "Not Authorized"
	case errors.Is(err, workflow.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, store.ErrVideoNotFound):
		return http.StatusNotFound, "Video not found"
	case errors.Is(err, workflow.ErrCredentialsRequired):
		return http.StatusConflict, "Connect YouTube before approving videos"
	case errors.Is(err, workflow.ErrApprovalInProgress):
		return http.StatusConflict, "Approval already in progress"
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict, "Video is no longer pending"
	case errors.Is(err, workflow.ErrAlreadySignedIn):
		return http.StatusConflict, "Already signed in"
	case errors.Is(err, workflow.ErrDialogClosed), errors.Is(err, workflow.ErrWrongStep):
		return http.StatusConflict, "Action not available"
	case errors.Is(err, workflow.ErrIncompleteForm):
		return http.StatusUnprocessableEntity, "Please fill in all fields"
	case errors.Is(err, workflow.ErrUploadNotReady):
		return http.StatusUnprocessableEntity, "Select a video file and fill in title and description"
	case errors.Is(err, workflow.ErrNotVideo):
		return http.StatusUnsupportedMediaType, "Only video files are accepted"
	case errors.Is(err, models.ErrUnknownRole):
		return http.StatusBadRequest, "Unknown role"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
