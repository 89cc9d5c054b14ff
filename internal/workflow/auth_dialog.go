package workflow

import (
	"github.com/grvbrk/yt_approval_hub/internal/models"
)

type AuthStep string

const (
	AuthStepRoleSelect AuthStep = "role_select"
	AuthStepAuthForm   AuthStep = "auth_form"
)

const invalidLoginMessage = "Invalid email or password"

type DemoCredentials struct {
	Email    string
	Password string
}

var DefaultDemoCredentials = DemoCredentials{
	Email:    "demo@example.com",
	Password: "password",
}

func (d DemoCredentials) Match(email, password string) bool {
	return email == d.Email && password == d.Password
}

// AuthDialog is the two-step sign-in dialog: pick a role, then enter credentials.
type AuthDialog struct {
	Open  bool        `json:"open"`
	Step  AuthStep    `json:"step"`
	Role  models.Role `json:"role,omitempty"`
	Error string      `json:"error,omitempty"`
}

func NewAuthDialog() AuthDialog {
	return AuthDialog{Step: AuthStepRoleSelect}
}

func (d *AuthDialog) Show() {
	d.Open = true
}

// Hide keeps the current step, so reopening lands where the user left off.
func (d *AuthDialog) Hide() {
	d.Open = false
}

func (d *AuthDialog) SelectRole(role models.Role) error {
	if !d.Open {
		return ErrDialogClosed
	}
	if d.Step != AuthStepRoleSelect {
		return ErrWrongStep
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return err
	}

	d.Role = role
	d.Step = AuthStepAuthForm
	return nil
}

func (d *AuthDialog) Back() error {
	if !d.Open {
		return ErrDialogClosed
	}
	d.Step = AuthStepRoleSelect
	d.Error = ""
	return nil
}

// Submit checks the demo pair. On success the dialog resets for the next open
// and the recorded role is returned.
func (d *AuthDialog) Submit(email, password string, demo DemoCredentials) (models.Role, error) {
	if !d.Open {
		return "", ErrDialogClosed
	}
	if d.Step != AuthStepAuthForm {
		return "", ErrWrongStep
	}

	if !demo.Match(email, password) {
		d.Error = invalidLoginMessage
		return "", ErrInvalidCredentials
	}

	role := d.Role
	*d = NewAuthDialog()
	return role, nil
}

// Heading mirrors the dialog title for the current step.
func (d AuthDialog) Heading() string {
	switch d.Step {
	case AuthStepRoleSelect:
		return "Choose Account Type"
	case AuthStepAuthForm:
		return "Sign in as " + d.Role.Title()
	}
	return ""
}
