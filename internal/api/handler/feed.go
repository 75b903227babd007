package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/feed"
)

// FeedHandler handles ground report feed endpoints.
type FeedHandler struct {
	service *feed.Service
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(service *feed.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// ListPosts handles GET /v1/feed/posts. LikedByMe is set when the caller
// presents a token.
func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	viewer := middleware.GetSubject(r.Context())
	items := make([]models.Post, len(posts))
	for i, p := range posts {
		items[i] = toPostModel(p, viewer)
	}
	response.JSON(w, r, http.StatusOK, models.PostList{Items: items, Meta: models.ListMeta{Count: len(items)}})
}

// CreatePost handles POST /v1/feed/posts.
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.PostCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.AddPost(r.Context(), feed.PostInput{
		Organization: h.organization(r, req.Organization),
		Location:     req.Location,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/feed/posts/"+strconv.FormatInt(post.ID, 10), toPostModel(post, middleware.GetSubject(r.Context())))
}

// CreateReply handles POST /v1/feed/posts/{postId}/replies.
func (h *FeedHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	var req models.ReplyCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, reply, err := h.service.AddReply(r.Context(), id, feed.ReplyInput{
		Organization: h.organization(r, req.Organization),
		Content:      req.Content,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/feed/posts/"+strconv.FormatInt(id, 10), toReplyModel(*reply))
}

// ToggleLike handles POST /v1/feed/posts/{postId}/like.
func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	post, liked, err := h.service.ToggleLike(r.Context(), id, middleware.GetSubject(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.LikeResponse{PostID: post.ID, Liked: liked, Likes: post.Likes})
}

// VerifyPost handles POST /v1/feed/posts/{postId}/verify.
func (h *FeedHandler) VerifyPost(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Verify)
}

// FlagPost handles POST /v1/feed/posts/{postId}/flag.
func (h *FeedHandler) FlagPost(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Flag)
}

// DeletePost handles DELETE /v1/feed/posts/{postId}.
func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *FeedHandler) moderate(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id int64) (*feed.Post, error)) {
	id, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	post, err := action(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPostModel(post, middleware.GetSubject(r.Context())))
}

// organization falls back to the caller's organization when the body omits it.
func (h *FeedHandler) organization(r *http.Request, requested string) string {
	if requested != "" {
		return requested
	}
	if p := middleware.GetPrincipal(r.Context()); p != nil {
		return p.Organization
	}
	return ""
}

func toPostModel(p *feed.Post, viewer string) models.Post {
	replies := make([]models.Reply, len(p.Replies))
	for i, reply := range p.Replies {
		replies[i] = toReplyModel(reply)
	}
	return models.Post{
		ID:           p.ID,
		Organization: p.Organization,
		Location:     p.Location,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		Likes:        p.Likes,
		LikedByMe:    viewer != "" && p.HasLiked(viewer),
		Replies:      replies,
		Verified:     p.Verified,
		Flagged:      p.Flagged,
		CreatedAt:    models.Timestamp(p.CreatedAt),
	}
}

func toReplyModel(r feed.Reply) models.Reply {
	return models.Reply{
		ID:           r.ID,
		Organization: r.Organization,
		Content:      r.Content,
		CreatedAt:    models.Timestamp(r.CreatedAt),
	}
}
