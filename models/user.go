package models

import "time"

// User is the identity record resolved from a bearer token.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Role         string    `bson:"role" json:"role"` // "user" or "admin"
	PasswordHash string    `bson:"password_hash" json:"-"`
	FCMToken     string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// AuthUser is the role-tagged identity the auth middleware places in the
// request context.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the authenticated user carries the admin role.
func (u AuthUser) IsAdmin() bool {
	return u.Role == "admin"
}

// Profile holds per-user metadata, keyed by the identity's user id and
// stored separately from the identity record itself.
type Profile struct {
	UserID     string    `bson:"user_id" json:"user_id"`
	FullName   string    `bson:"full_name" json:"full_name"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PictureURL string    `bson:"picture_url,omitempty" json:"picture_url,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
