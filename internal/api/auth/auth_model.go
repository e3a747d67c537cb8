package auth

import "github.com/dmelim/userbase/internal/types"

// AuthResponse is returned by register, login, refresh and the social
// callback. Tokens are minted at the boundary after the use case
// succeeds.
type AuthResponse struct {
	User         types.UserProfile `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	Message      string            `json:"message,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
