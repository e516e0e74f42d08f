package models

import "time"

type BlogPost struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Excerpt     string     `json:"excerpt" db:"excerpt"`
	Content     string     `json:"content" db:"content"`
	CoverImage  *string    `json:"cover_image" db:"cover_image"`
	IsPublished bool       `json:"is_published" db:"is_published"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// BlogPostUpdate carries optional fields for partial post updates.
type BlogPostUpdate struct {
	Title      *string `json:"title"`
	Excerpt    *string `json:"excerpt"`
	Content    *string `json:"content"`
	CoverImage *string `json:"cover_image"`
}
