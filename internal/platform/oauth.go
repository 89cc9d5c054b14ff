package platform

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/grvbrk/yt_approval_hub/internal/models"
)

const YouTubeUploadScope = "https://www.googleapis.com/auth/youtube.upload"

// LinkConfig builds the OAuth2 client config a real integration would use for
// the supplied id/secret pair. It is only used to render the consent URL.
func LinkConfig(creds models.Credentials, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{YouTubeUploadScope},
		Endpoint:     google.Endpoint,
	}
}

func AuthURL(creds models.Credentials, redirectURL, state string) string {
	return LinkConfig(creds, redirectURL).AuthCodeURL(state, oauth2.AccessTypeOffline)
}
