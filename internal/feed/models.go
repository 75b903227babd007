// Package feed implements the ground report feed: short field updates posted
// by organizations, with replies, likes and moderation flags.
package feed

import (
	"errors"
	"time"
)

// Feed errors.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrPostingDisabled = errors.New("feed posting is disabled")
)

// Post is a ground report.
type Post struct {
	ID           int64
	Organization string

	// Location is a free-text place label, not a registry reference.
	Location  string
	Content   string
	ImageURL  string
	Likes     int
	Replies   []Reply
	Verified  bool
	Flagged   bool
	LikedBy   []string
	CreatedAt time.Time
}

// Reply is a response to a post. IDs are unique across all posts.
type Reply struct {
	ID           int64
	Organization string
	Content      string
	CreatedAt    time.Time
}

// Clone returns a deep copy of p.
func (p *Post) Clone() *Post {
	cpy := *p
	cpy.Replies = append([]Reply(nil), p.Replies...)
	cpy.LikedBy = append([]string(nil), p.LikedBy...)
	return &cpy
}

// HasLiked reports whether userID is among the post's likers.
func (p *Post) HasLiked(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// PostInput holds the caller-supplied fields of a new post.
type PostInput struct {
	Organization string
	Location     string
	Content      string
	ImageURL     string
}

// ReplyInput holds the caller-supplied fields of a new reply.
type ReplyInput struct {
	Organization string
	Content      string
}

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when input fails validation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
