package feed_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/events"
	"github.com/aidlink/aidlink/internal/feed"
)

var fixedNow = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)

type postingSwitch struct {
	mu       sync.Mutex
	disabled bool
}

func (p *postingSwitch) IsFeedPostingDisabled(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled
}

func newSeededService(t *testing.T, posting feed.PostingSwitch, pub events.Publisher) *feed.Service {
	t.Helper()
	return feed.NewService(feed.ServiceConfig{
		Repository: feed.NewInMemoryRepositoryWith(feed.SeedPosts(fixedNow)),
		Logger:     zerolog.Nop(),
		Posting:    posting,
		Publisher:  pub,
		Now:        func() time.Time { return fixedNow },
	})
}

func TestService_ListNewestFirst(t *testing.T) {
	svc := newSeededService(t, nil, nil)

	posts, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 6)
	for i := 1; i < len(posts); i++ {
		assert.Greater(t, posts[i-1].ID, posts[i].ID)
		assert.False(t, posts[i-1].CreatedAt.Before(posts[i].CreatedAt))
	}
}

func TestService_AddPost(t *testing.T) {
	svc := newSeededService(t, nil, nil)
	ctx := context.Background()

	post, err := svc.AddPost(ctx, feed.PostInput{
		Organization: "PPAF",
		Location:     "Les Cayes, Sud",
		Content:      "Water trucks arrived.",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), post.ID)
	assert.Zero(t, post.Likes)
	assert.Empty(t, post.Replies)
	assert.False(t, post.Verified)
	assert.False(t, post.Flagged)
	assert.Equal(t, fixedNow, post.CreatedAt)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, post.ID, posts[0].ID, "new post is listed first")
}

func TestService_AddPostValidation(t *testing.T) {
	svc := newSeededService(t, nil, nil)

	_, err := svc.AddPost(context.Background(), feed.PostInput{ImageURL: "ftp://example.com/x.png"})

	var validationErr *feed.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 3)
}

func TestService_AddPostDisabled(t *testing.T) {
	sw := &postingSwitch{disabled: true}
	svc := newSeededService(t, sw, nil)

	_, err := svc.AddPost(context.Background(), feed.PostInput{Organization: "FAO", Content: "hello"})
	assert.ErrorIs(t, err, feed.ErrPostingDisabled)
}

func TestService_AddReplyUsesGlobalReplyIDs(t *testing.T) {
	svc := newSeededService(t, nil, nil)
	ctx := context.Background()

	post, reply, err := svc.AddReply(ctx, 2, feed.ReplyInput{Organization: "WFP", Content: "On our way."})
	require.NoError(t, err)
	assert.Equal(t, int64(10), reply.ID)
	require.Len(t, post.Replies, 2)
	assert.Equal(t, int64(10), post.Replies[1].ID)

	_, reply, err = svc.AddReply(ctx, 5, feed.ReplyInput{Organization: "FAO", Content: "Count us in."})
	require.NoError(t, err)
	assert.Equal(t, int64(11), reply.ID)
}

func TestService_AddReplyMissingPost(t *testing.T) {
	svc := newSeededService(t, nil, nil)

	_, _, err := svc.AddReply(context.Background(), 99, feed.ReplyInput{Organization: "FAO", Content: "hi"})
	assert.ErrorIs(t, err, feed.ErrPostNotFound)
}

func TestService_ToggleLike(t *testing.T) {
	svc := newSeededService(t, nil, nil)
	ctx := context.Background()

	post, liked, err := svc.ToggleLike(ctx, 1, "user9")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 29, post.Likes)
	assert.Contains(t, post.LikedBy, "user9")

	post, liked, err = svc.ToggleLike(ctx, 1, "user9")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 28, post.Likes)
	assert.NotContains(t, post.LikedBy, "user9")

	post, liked, err = svc.ToggleLike(ctx, 1, "user1")
	require.NoError(t, err)
	assert.False(t, liked, "seeded liker unlikes")
	assert.Equal(t, 27, post.Likes)
	assert.Equal(t, []string{"user2", "user3"}, post.LikedBy)
}

func TestService_Moderation(t *testing.T) {
	pub := events.NewMemoryPublisher()
	svc := newSeededService(t, nil, pub)
	ctx := context.Background()

	post, err := svc.Verify(ctx, 2)
	require.NoError(t, err)
	assert.True(t, post.Verified)
	assert.False(t, post.Flagged)

	post, err = svc.Flag(ctx, 2)
	require.NoError(t, err)
	assert.True(t, post.Flagged)
	assert.False(t, post.Verified)

	moderated := pub.OfType(events.TypeFeedPostModerated)
	require.Len(t, moderated, 2)
	assert.Equal(t, "verify", moderated[0].Data["action"])
	assert.Equal(t, "flag", moderated[1].Data["action"])

	_, err = svc.Verify(ctx, 99)
	assert.ErrorIs(t, err, feed.ErrPostNotFound)
}

func TestService_Delete(t *testing.T) {
	svc := newSeededService(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 3))
	require.NoError(t, svc.Delete(ctx, 3))

	_, err := svc.Get(ctx, 3)
	assert.ErrorIs(t, err, feed.ErrPostNotFound)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := feed.NewInMemoryRepositoryWith(feed.SeedPosts(fixedNow))
	ctx := context.Background()

	post, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	post.LikedBy[0] = "mallory"
	post.Replies[0].Content = "edited"

	again, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "user1", again.LikedBy[0])
	assert.NotEqual(t, "edited", again.Replies[0].Content)
}
