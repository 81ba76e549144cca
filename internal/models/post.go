package models

import "time"

// Post is the metadata record of a blog post. Its body lives in the object
// store under ObjectKey(owner username, Filename).
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Filename  string    `json:"filename" db:"filename"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
