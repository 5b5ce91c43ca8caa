package client

import (
	"context"
	"errors"
	"sync"
)

// ErrMutationInFlight is returned when a post mutation is attempted while
// another one is still running.
var ErrMutationInFlight = errors.New("another mutation is in flight")

// LikePhase is the lifecycle of one optimistic like toggle.
type LikePhase int

const (
	// LikeIdle means no toggle is in progress for the post
	LikeIdle LikePhase = iota
	// LikePending means the local flip is applied and the call is in flight
	LikePending
	// LikeCommitted means the server confirmed the toggle
	LikeCommitted
	// LikeRolledBack means the call failed and the flip was inverted
	LikeRolledBack
)

// likeEvent drives the phase reducer
type likeEvent int

const (
	likeStart likeEvent = iota
	likeCommit
	likeRollback
)

// nextLikePhase is the single reducer for the toggle state machine.
// Starting from Committed or RolledBack begins a fresh toggle; Pending
// rejects a second start, which callers treat as "ignore the tap".
func nextLikePhase(phase LikePhase, event likeEvent) (LikePhase, bool) {
	switch event {
	case likeStart:
		if phase == LikePending {
			return phase, false
		}
		return LikePending, true
	case likeCommit:
		return LikeCommitted, true
	case likeRollback:
		return LikeRolledBack, true
	}
	return phase, false
}

// Feed holds the client-side feed state: the loaded page list, the
// pagination cursor, the active query/filter, and the optimistic like
// phases. Mutations flip local state first and reconcile with the server
// response, rolling back on failure.
type Feed struct {
	mu     sync.Mutex
	client *Client

	Query  string
	Filter string
	Limit  int

	posts      []Post
	hasMore    bool
	nextCursor *string

	likePhases map[string]LikePhase
	mutating   bool
}

// NewFeed creates an empty feed over the given client
func NewFeed(c *Client) *Feed {
	return &Feed{
		client:     c,
		Filter:     "all",
		Limit:      10,
		likePhases: make(map[string]LikePhase),
	}
}

// Posts returns a copy of the currently loaded posts
func (f *Feed) Posts() []Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// HasMore reports whether another page exists
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// LikePhaseOf returns the toggle phase for a post
func (f *Feed) LikePhaseOf(postID string) LikePhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likePhases[postID]
}

// IsMutating reports whether a post mutation is in flight
func (f *Feed) IsMutating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutating
}

// SetQuery changes the search query and resets pagination
func (f *Feed) SetQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Query = query
	f.nextCursor = nil
	f.hasMore = true
}

// SetFilter changes the all/mine filter and resets pagination
func (f *Feed) SetFilter(filter string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Filter = filter
	f.nextCursor = nil
	f.hasMore = true
}

// Refresh replaces the feed with the authoritative first page
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	params := ListParams{Query: f.Query, Filter: f.Filter, Limit: f.Limit}
	f.mu.Unlock()

	page, err := f.client.ListPosts(ctx, params)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.posts = page.Posts
	f.hasMore = page.HasMore
	f.nextCursor = page.NextCursor
	f.mu.Unlock()
	return nil
}

// LoadMore appends the next page using the stored cursor
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if !f.hasMore || f.nextCursor == nil {
		f.mu.Unlock()
		return nil
	}
	params := ListParams{Query: f.Query, Cursor: *f.nextCursor, Filter: f.Filter, Limit: f.Limit}
	f.mu.Unlock()

	page, err := f.client.ListPosts(ctx, params)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.posts = append(f.posts, page.Posts...)
	f.hasMore = page.HasMore
	f.nextCursor = page.NextCursor
	f.mu.Unlock()
	return nil
}

// ToggleLike optimistically flips a post's like state, then reconciles
// with the server: commit plus refresh on success, inverse flip on
// failure. A toggle while one is already pending for the same post is
// ignored so a double tap cannot double count.
func (f *Feed) ToggleLike(ctx context.Context, postID string) error {
	f.mu.Lock()
	idx := f.indexOf(postID)
	if idx < 0 {
		f.mu.Unlock()
		return errors.New("post not loaded")
	}

	phase, ok := nextLikePhase(f.likePhases[postID], likeStart)
	if !ok {
		f.mu.Unlock()
		return nil
	}
	f.likePhases[postID] = phase

	liking := !f.posts[idx].IsLiked
	f.applyLikeFlip(idx, liking)
	f.mu.Unlock()

	var err error
	if liking {
		err = f.client.LikePost(ctx, postID)
	} else {
		err = f.client.UnlikePost(ctx, postID)
	}

	f.mu.Lock()
	if err != nil {
		if idx := f.indexOf(postID); idx >= 0 {
			f.applyLikeFlip(idx, !liking)
		}
		f.likePhases[postID], _ = nextLikePhase(f.likePhases[postID], likeRollback)
		f.mu.Unlock()
		return err
	}
	f.likePhases[postID], _ = nextLikePhase(f.likePhases[postID], likeCommit)
	f.mu.Unlock()

	// The refresh re-fetches the authoritative page; a refresh failure
	// does not undo a toggle the server accepted.
	return f.Refresh(ctx)
}

// CreatePost creates a post and refreshes the feed. A single in-flight
// flag gates all post mutations; there is no fine-grained merge.
func (f *Feed) CreatePost(ctx context.Context, content string) (*Post, error) {
	if err := f.beginMutation(); err != nil {
		return nil, err
	}
	defer f.endMutation()

	post, err := f.client.CreatePost(ctx, content)
	if err != nil {
		return nil, err
	}
	if err := f.Refresh(ctx); err != nil {
		return post, err
	}
	return post, nil
}

// UpdatePost edits a post and refreshes the feed
func (f *Feed) UpdatePost(ctx context.Context, postID, content string) (*Post, error) {
	if err := f.beginMutation(); err != nil {
		return nil, err
	}
	defer f.endMutation()

	post, err := f.client.UpdatePost(ctx, postID, content)
	if err != nil {
		return nil, err
	}
	if err := f.Refresh(ctx); err != nil {
		return post, err
	}
	return post, nil
}

// DeletePost removes a post and refreshes the feed
func (f *Feed) DeletePost(ctx context.Context, postID string) error {
	if err := f.beginMutation(); err != nil {
		return err
	}
	defer f.endMutation()

	if err := f.client.DeletePost(ctx, postID); err != nil {
		return err
	}
	return f.Refresh(ctx)
}

func (f *Feed) beginMutation() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutating {
		return ErrMutationInFlight
	}
	f.mutating = true
	return nil
}

func (f *Feed) endMutation() {
	f.mu.Lock()
	f.mutating = false
	f.mu.Unlock()
}

// indexOf must be called with f.mu held
func (f *Feed) indexOf(postID string) int {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

// applyLikeFlip must be called with f.mu held
func (f *Feed) applyLikeFlip(idx int, liked bool) {
	f.posts[idx].IsLiked = liked
	if liked {
		f.posts[idx].LikesCount++
	} else {
		f.posts[idx].LikesCount--
	}
}
