package models

// Reply is a response to a ground report.
type Reply struct {
	ID           int64     `json:"id"`
	Organization string    `json:"organization"`
	Content      string    `json:"content"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// Post is a ground report.
type Post struct {
	ID           int64     `json:"id"`
	Organization string    `json:"organization"`
	Location     string    `json:"location"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Likes        int       `json:"likes"`
	LikedByMe    bool      `json:"likedByMe"`
	Replies      []Reply   `json:"replies"`
	Verified     bool      `json:"verified"`
	Flagged      bool      `json:"flagged"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// PostList is the response of GET /v1/feed/posts.
type PostList struct {
	Items []Post   `json:"items"`
	Meta  ListMeta `json:"meta"`
}

// PostCreateRequest is the body of POST /v1/feed/posts. Organization
// defaults to the caller's organization.
type PostCreateRequest struct {
	Organization string `json:"organization,omitempty"`
	Location     string `json:"location"`
	Content      string `json:"content"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// ReplyCreateRequest is the body of POST /v1/feed/posts/{id}/replies.
type ReplyCreateRequest struct {
	Organization string `json:"organization,omitempty"`
	Content      string `json:"content"`
}

// LikeResponse reports the like state after a toggle.
type LikeResponse struct {
	PostID int64 `json:"postId"`
	Liked  bool  `json:"liked"`
	Likes  int   `json:"likes"`
}
