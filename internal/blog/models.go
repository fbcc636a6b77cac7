package blog

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Post struct {
	ID               int64     `json:"post_id"`
	Title            string    `json:"title"`
	ShortDescription *string   `json:"short_description"`
	Content          string    `json:"content"`
	ImageURL         *string   `json:"image_url"`
	AuthorID         int64     `json:"author_id"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	AuthorName       *string   `json:"author_name,omitempty"`
}

// PostDetail is a single post with its tags.
type PostDetail struct {
	Post
	Tags []Tag `json:"tags"`
}

type Tag struct {
	ID          int64   `json:"tag_id"`
	Name        string  `json:"tag_name"`
	Description *string `json:"tag_description"`
}

type NewPost struct {
	Title            string
	ShortDescription string
	Content          string
	ImageURL         string
	AuthorID         int64
	Status           string
}

type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
