package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

type Provider string

const (
	ProviderLocal    Provider = "LOCAL"
	ProviderGoogle   Provider = "GOOGLE"
	ProviderKakao    Provider = "KAKAO"
	ProviderFirebase Provider = "FIREBASE"
)

func ValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}

func ValidSocialProvider(p string) bool {
	switch Provider(p) {
	case ProviderGoogle, ProviderKakao, ProviderFirebase:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Status       UserStatus
	Provider     Provider
	ProviderID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the sanitized view of a user returned by the API.
// The password hash never leaves the server.
type UserProfile struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	Status     UserStatus `json:"status"`
	Provider   Provider   `json:"provider"`
	ProviderID *string    `json:"providerId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		Provider:   u.Provider,
		ProviderID: u.ProviderID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// AuthUser is the identity the authentication middleware attaches to the
// request context for downstream role and ownership checks.
type AuthUser struct {
	ID    int64
	Email string
	Role  Role
}
