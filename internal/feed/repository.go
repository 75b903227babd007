package feed

import "context"

// Repository defines the interface for post storage.
type Repository interface {
	// Get retrieves a post by ID.
	Get(ctx context.Context, id int64) (*Post, error)

	// List retrieves all posts, newest first.
	List(ctx context.Context) ([]*Post, error)

	// Create assigns the next post ID and stores a copy of post. IDs are
	// never reused.
	Create(ctx context.Context, post *Post) error

	// Modify applies fn to the stored post and saves the result.
	Modify(ctx context.Context, id int64, fn func(*Post) error) (*Post, error)

	// AddReply assigns the next reply ID and appends reply to the post.
	AddReply(ctx context.Context, postID int64, reply *Reply) (*Post, error)

	// Delete deletes a post by ID. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id int64) error
}
