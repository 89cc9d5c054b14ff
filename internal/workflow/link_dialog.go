package workflow

import "github.com/grvbrk/yt_approval_hub/internal/models"

const incompleteLinkMessage = "Please fill in all fields"

// LinkDialog collects the platform id/secret pair.
type LinkDialog struct {
	Open  bool   `json:"open"`
	Error string `json:"error,omitempty"`
}

func (d *LinkDialog) Show() {
	d.Open = true
}

func (d *LinkDialog) Hide() {
	d.Open = false
	d.Error = ""
}

func (d *LinkDialog) Submit(clientID, clientSecret string) (models.Credentials, error) {
	if !d.Open {
		return models.Credentials{}, ErrDialogClosed
	}
	if clientID == "" || clientSecret == "" {
		d.Error = incompleteLinkMessage
		return models.Credentials{}, ErrIncompleteForm
	}

	d.Hide()
	return models.Credentials{ClientID: clientID, ClientSecret: clientSecret}, nil
}
