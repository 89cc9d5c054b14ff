package workflow

import "errors"

var (
	ErrNotSignedIn         = errors.New("not signed in")
	ErrAlreadySignedIn     = errors.New("already signed in")
	ErrForbidden           = errors.New("action not allowed for role")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrDialogClosed        = errors.New("dialog is not open")
	ErrWrongStep           = errors.New("action not available at this dialog step")
	ErrIncompleteForm      = errors.New("all fields are required")
	ErrCredentialsRequired = errors.New("platform credentials required")
	ErrApprovalInProgress  = errors.New("approval already in progress")
	ErrNotVideo            = errors.New("file is not a video")
	ErrUploadNotReady      = errors.New("upload form is incomplete")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
)
