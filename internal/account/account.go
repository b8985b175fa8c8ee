// Package account holds the local user profile. Sign-in is a mock: nothing
// is verified and no credentials are stored.
package account

import (
	"strings"

	"github.com/google/uuid"
)

const (
	GuestEmail  = "guest@whb.ai"
	GuestName   = "Guest Explorer"
	DefaultName = "Neural Architect"

	avatarBase = "https://api.dicebear.com/7.x/bottts/svg?seed="
)

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	IsPro  bool   `json:"isPro"`
}

// returns the plan label shown in settings
func (u User) Plan() string {
	if u.IsPro {
		return "Infinite Synthesis"
	}

	return "Standard Core"
}

// builds a standard-tier user from the sign-in form. the password is
// accepted and ignored.
func Login(email, _, name string) User {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if name == "" {
		local, _, _ := strings.Cut(email, "@")
		name = local
	}
	if name == "" {
		name = DefaultName
	}

	seed := email
	if seed == "" {
		seed = "guest"
		email = GuestEmail
	}

	return User{
		ID:     uuid.NewString(),
		Email:  email,
		Name:   name,
		Avatar: avatarBase + seed,
	}
}

func Guest() User {
	return User{
		ID:     "guest_" + uuid.NewString(),
		Email:  GuestEmail,
		Name:   GuestName,
		Avatar: avatarBase + "guest",
	}
}
