// Package models defines the client-side view of the phonebook API payloads.
package models

import "time"

type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Timezone  string     `json:"timezone"`
	AvatarURL *string    `json:"avatar_url"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// DisplayName is "First Last", falling back to the email.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// ProfilePatch sends only the non-nil fields.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Contact struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Company     string     `json:"company,omitempty"`
	JobTitle    string     `json:"job_title,omitempty"`
	Address     string     `json:"address,omitempty"`
	Birthday    *Date      `json:"birthday,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Tags        string     `json:"tags,omitempty"`
	IsFavorite  bool       `json:"is_favorite"`
	IsImportant bool       `json:"is_important"`
}

type ContactPatch struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Company     *string `json:"company,omitempty"`
	JobTitle    *string `json:"job_title,omitempty"`
	Address     *string `json:"address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	IsImportant *bool   `json:"is_important,omitempty"`
}

// ListOptions maps onto the GET /contacts query string. Zero values are
// left for the server to default.
type ListOptions struct {
	Search     string
	Company    string
	IsFavorite *bool
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

type ContactPage struct {
	Data  []Contact `json:"data"`
	Total int       `json:"total"`
}

type ContactStats struct {
	Total     int `json:"total"`
	Favorites int `json:"favorites"`
	Companies int `json:"companies"`
	Recent    int `json:"recent"`
}
