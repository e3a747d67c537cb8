package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the outbound user shape. Mapped field by field from
// the entity on purpose: nothing undeclared here can ever leak out, and
// nothing inbound can smuggle extra fields in.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"isActive"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserProfile copies the entity into its transfer shape explicitly.
func NewUserProfile(u *User) UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserPage is one page of user profiles plus listing metadata.
type UserPage struct {
	Users []UserProfile `json:"users"`
	Meta  PageMeta      `json:"meta"`
}
