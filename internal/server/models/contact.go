package models

import "time"

// Contact is an address-book entry owned by exactly one user.
type Contact struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Company     string     `json:"company"`
	JobTitle    string     `json:"job_title"`
	Address     string     `json:"address"`
	Birthday    *Date      `json:"birthday"`
	Notes       string     `json:"notes"`
	Tags        string     `json:"tags"`
	IsFavorite  bool       `json:"is_favorite"`
	IsImportant bool       `json:"is_important"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ContactPatch carries a partial contact update; nil fields are left as is.
type ContactPatch struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Company     *string `json:"company"`
	JobTitle    *string `json:"job_title"`
	Address     *string `json:"address"`
	Birthday    *Date   `json:"birthday"`
	Notes       *string `json:"notes"`
	Tags        *string `json:"tags"`
	IsFavorite  *bool   `json:"is_favorite"`
	IsImportant *bool   `json:"is_important"`
}

// Apply copies the set fields of p onto c.
func (p ContactPatch) Apply(c *Contact) {
	setIf(&c.Name, p.Name)
	setIf(&c.Phone, p.Phone)
	setIf(&c.Email, p.Email)
	setIf(&c.Company, p.Company)
	setIf(&c.JobTitle, p.JobTitle)
	setIf(&c.Address, p.Address)
	setIf(&c.Notes, p.Notes)
	setIf(&c.Tags, p.Tags)
	setIf(&c.IsFavorite, p.IsFavorite)
	setIf(&c.IsImportant, p.IsImportant)
	if p.Birthday != nil {
		c.Birthday = p.Birthday
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Sort columns and directions accepted by ContactFilter.
const (
	SortByName      = "name"
	SortByCompany   = "company"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"

	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Paging bounds for ContactFilter.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ContactFilter narrows and orders a contact listing.
type ContactFilter struct {
	Search      string
	IsFavorite  *bool
	IsImportant *bool
	Company     string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

// Offset is the number of rows to skip for the filter's page.
func (f ContactFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ContactPage is one page of a listing plus the unpaged total.
type ContactPage struct {
	Data  []Contact `json:"data"`
	Total int       `json:"total"`
}

// ContactStats summarizes a user's address book.
type ContactStats struct {
	Total     int `json:"total"`
	Favorites int `json:"favorites"`
	Companies int `json:"companies"`
	Recent    int `json:"recent"`
}
