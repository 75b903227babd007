package feed

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu          sync.RWMutex
	posts       map[int64]*Post
	lastID      int64
	lastReplyID int64
}

// NewInMemoryRepository creates a new in-memory post repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		posts: make(map[int64]*Post),
	}
}

// NewInMemoryRepositoryWith creates a repository holding copies of posts.
func NewInMemoryRepositoryWith(posts []*Post) *InMemoryRepository {
	r := NewInMemoryRepository()
	for _, p := range posts {
		r.posts[p.ID] = p.Clone()
		if p.ID > r.lastID {
			r.lastID = p.ID
		}
		for _, reply := range p.Replies {
			if reply.ID > r.lastReplyID {
				r.lastReplyID = reply.ID
			}
		}
	}
	return r
}

// Get retrieves a post by ID.
func (r *InMemoryRepository) Get(_ context.Context, id int64) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return p.Clone(), nil
}

// List retrieves all posts, newest first.
func (r *InMemoryRepository) List(_ context.Context) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p.Clone())
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

// Create assigns the next ID to post and stores a copy.
func (r *InMemoryRepository) Create(_ context.Context, post *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	post.ID = r.lastID
	r.posts[post.ID] = post.Clone()
	return nil
}

// Modify applies fn to the stored post under the write lock.
func (r *InMemoryRepository) Modify(_ context.Context, id int64, fn func(*Post) error) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}

	cpy := p.Clone()
	if err := fn(cpy); err != nil {
		return nil, err
	}
	cpy.ID = id
	r.posts[id] = cpy
	return cpy.Clone(), nil
}

// AddReply assigns the next reply ID and appends the reply.
func (r *InMemoryRepository) AddReply(_ context.Context, postID int64, reply *Reply) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}

	r.lastReplyID++
	reply.ID = r.lastReplyID
	p.Replies = append(p.Replies, *reply)
	return p.Clone(), nil
}

// Delete deletes a post by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
