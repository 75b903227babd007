package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/events"
	"github.com/aidlink/aidlink/internal/metrics"
)

// PostingSwitch reports whether new posts are currently refused. The feature
// flag service satisfies it.
type PostingSwitch interface {
	IsFeedPostingDisabled(ctx context.Context) bool
}

// ServiceConfig holds the dependencies of a Service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Posting is optional; nil always allows posting.
	Posting PostingSwitch

	Publisher events.Publisher
	Metrics   *metrics.Metrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service manages the ground report feed.
type Service struct {
	repo      Repository
	posting   PostingSwitch
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a new feed service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		repo:      cfg.Repository,
		posting:   cfg.Posting,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "feed").Logger(),
		now:       cfg.Now,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Get retrieves a post by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	return s.repo.Get(ctx, id)
}

// List returns all posts, newest first.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx)
}

// AddPost publishes a new, unverified post.
func (s *Service) AddPost(ctx context.Context, input PostInput) (*Post, error) {
	if s.posting != nil && s.posting.IsFeedPostingDisabled(ctx) {
		return nil, ErrPostingDisabled
	}

	var errs []FieldError
	if strings.TrimSpace(input.Organization) == "" {
		errs = append(errs, FieldError{Field: "organization", Message: "is required"})
	}
	if strings.TrimSpace(input.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "is required"})
	}
	if input.ImageURL != "" {
		if u, err := url.Parse(input.ImageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, FieldError{Field: "imageUrl", Message: "must be an http(s) URL"})
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	post := &Post{
		Organization: input.Organization,
		Location:     input.Location,
		Content:      input.Content,
		ImageURL:     input.ImageURL,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info().Int64("post_id", post.ID).Str("organization", post.Organization).Msg("post created")
	s.metrics.IncrementFeedAction("post")
	return post, nil
}

// AddReply appends a reply to a post.
func (s *Service) AddReply(ctx context.Context, postID int64, input ReplyInput) (*Post, *Reply, error) {
	var errs []FieldError
	if strings.TrimSpace(input.Organization) == "" {
		errs = append(errs, FieldError{Field: "organization", Message: "is required"})
	}
	if strings.TrimSpace(input.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "is required"})
	}
	if len(errs) > 0 {
		return nil, nil, &ValidationError{Errors: errs}
	}

	reply := &Reply{
		Organization: input.Organization,
		Content:      input.Content,
		CreatedAt:    s.now().UTC(),
	}
	post, err := s.repo.AddReply(ctx, postID, reply)
	if err != nil {
		return nil, nil, err
	}

	s.metrics.IncrementFeedAction("reply")
	return post, reply, nil
}

// ToggleLike likes the post for userID, or unlikes it if userID already
// liked it. It reports whether the post is liked afterwards.
func (s *Service) ToggleLike(ctx context.Context, postID int64, userID string) (*Post, bool, error) {
	if userID == "" {
		return nil, false, &ValidationError{Errors: []FieldError{{Field: "userId", Message: "is required"}}}
	}

	var liked bool
	post, err := s.repo.Modify(ctx, postID, func(p *Post) error {
		if p.HasLiked(userID) {
			kept := p.LikedBy[:0]
			for _, id := range p.LikedBy {
				if id != userID {
					kept = append(kept, id)
				}
			}
			p.LikedBy = kept
			p.Likes--
			return nil
		}
		p.LikedBy = append(p.LikedBy, userID)
		p.Likes++
		liked = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if liked {
		s.metrics.IncrementFeedAction("like")
	} else {
		s.metrics.IncrementFeedAction("unlike")
	}
	return post, liked, nil
}

// Verify marks a post as verified and clears its flag.
func (s *Service) Verify(ctx context.Context, postID int64) (*Post, error) {
	return s.moderate(ctx, postID, "verify", func(p *Post) {
		p.Verified = true
		p.Flagged = false
	})
}

// Flag marks a post as flagged and clears its verification.
func (s *Service) Flag(ctx context.Context, postID int64) (*Post, error) {
	return s.moderate(ctx, postID, "flag", func(p *Post) {
		p.Flagged = true
		p.Verified = false
	})
}

// Delete removes a post. Deleting an unknown post is a no-op.
func (s *Service) Delete(ctx context.Context, postID int64) error {
	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("deleting post %d: %w", postID, err)
	}
	s.logger.Info().Int64("post_id", postID).Msg("post deleted")
	s.metrics.IncrementFeedAction("delete")
	return nil
}

func (s *Service) moderate(ctx context.Context, postID int64, action string, fn func(*Post)) (*Post, error) {
	post, err := s.repo.Modify(ctx, postID, func(p *Post) error {
		fn(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("post_id", postID).Str("action", action).Msg("post moderated")
	s.metrics.IncrementFeedAction(action)
	event := events.New(events.TypeFeedPostModerated, "post/"+strconv.FormatInt(postID, 10), map[string]any{
		"action":   action,
		"verified": post.Verified,
		"flagged":  post.Flagged,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.IncrementPublishFailure(event.Type)
		s.logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to publish event")
	}
	return post, nil
}
