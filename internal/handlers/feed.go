package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/SamuelMasih777/micro-feed/internal/database"
	"github.com/SamuelMasih777/micro-feed/internal/logger"
	"github.com/SamuelMasih777/micro-feed/internal/models"
	"github.com/SamuelMasih777/micro-feed/internal/util"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// AuthorInfo is the post author as rendered in responses
type AuthorInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PostResponse is a post annotated for the requesting user
type PostResponse struct {
	ID         string     `json:"id"`
	AuthorID   string     `json:"author_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Author     AuthorInfo `json:"author"`
	LikesCount int64      `json:"likes_count"`
	IsLiked    bool       `json:"is_liked"`
}

// FeedResponse is one page of the feed
type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor"`
}

// ListPosts returns a page of the feed, newest first, with optional
// search, an all/mine filter and keyset pagination.
// GET /api/v1/posts?query&cursor&filter&limit
func (h *Handlers) ListPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	filter := c.DefaultQuery("filter", "all")
	limit := util.ClampInt(util.ParseInt(c.DefaultQuery("limit", "10"), defaultPageLimit), 1, maxPageLimit)

	var cursor time.Time
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			util.RespondBadRequest(c, "Invalid cursor")
			return
		}
		cursor = parsed
	}

	// Fetch limit+1 rows: the extra row only signals that another page
	// exists and is never returned.
	q := database.DB.
		Preload("Author").
		Order("created_at DESC").
		Limit(limit + 1)

	if query != "" {
		q = q.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if filter == "mine" {
		q = q.Where("author_id = ?", userID)
	}
	if !cursor.IsZero() {
		q = q.Where("created_at < ?", cursor)
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		logger.ErrorWithFields("feed query failed", err)
		util.RespondInternalError(c, "Failed to fetch posts")
		return
	}

	hasMore := len(posts) > limit
	var nextCursor *string
	if hasMore {
		posts = posts[:limit]
		cursorValue := posts[limit-1].CreatedAt.UTC().Format(time.RFC3339Nano)
		nextCursor = &cursorValue
	}

	annotated, err := h.annotatePosts(userID, posts)
	if err != nil {
		logger.ErrorWithFields("feed annotation failed", err)
		util.RespondInternalError(c, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, FeedResponse{
		Posts:      annotated,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	})
}

// annotatePosts computes likes_count and is_liked for one page of posts.
// Both annotations are single batched queries over exactly the page's
// post IDs; is_liked is always relative to the requesting user.
func (h *Handlers) annotatePosts(userID string, posts []models.Post) ([]PostResponse, error) {
	responses := make([]PostResponse, 0, len(posts))
	if len(posts) == 0 {
		return responses, nil
	}

	postIDs := make([]string, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	var countRows []struct {
		PostID string
		Count  int64
	}
	err := database.DB.Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&countRows).Error
	if err != nil {
		return nil, err
	}
	likeCounts := make(map[string]int64, len(countRows))
	for _, row := range countRows {
		likeCounts[row.PostID] = row.Count
	}

	var likedIDs []string
	err = database.DB.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	for _, post := range posts {
		responses = append(responses, newPostResponse(&post, likeCounts[post.ID], liked[post.ID]))
	}
	return responses, nil
}

// newPostResponse builds the response shape for a single post. A missing
// author profile renders as "Unknown" rather than failing the request.
func newPostResponse(post *models.Post, likesCount int64, isLiked bool) PostResponse {
	username := "Unknown"
	if post.Author != nil {
		username = post.Author.Username
	}
	return PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
		Author: AuthorInfo{
			ID:       post.AuthorID,
			Username: username,
		},
		LikesCount: likesCount,
		IsLiked:    isLiked,
	}
}
