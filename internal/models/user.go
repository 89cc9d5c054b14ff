package models

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleCreator Role = "creator"
	RoleEditor  Role = "editor"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCreator:
		return RoleCreator, nil
	case RoleEditor:
		return RoleEditor, nil
	}
	return "", ErrUnknownRole
}

// Title is the capitalised role name used in dialog headings.
func (r Role) Title() string {
	switch r {
	case RoleCreator:
		return "Creator"
	case RoleEditor:
		return "Editor"
	}
	return ""
}

type Session struct {
	Authenticated bool `json:"authenticated"`
	Role          Role `json:"role,omitempty"`
}

func (s Session) IsCreator() bool {
	return s.Authenticated && s.Role == RoleCreator
}

// Credentials are the platform id/secret pair that gates approvals.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
}
