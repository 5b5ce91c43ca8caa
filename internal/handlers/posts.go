package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SamuelMasih777/micro-feed/internal/auth"
	"github.com/SamuelMasih777/micro-feed/internal/database"
	"github.com/SamuelMasih777/micro-feed/internal/logger"
	"github.com/SamuelMasih777/micro-feed/internal/metrics"
	"github.com/SamuelMasih777/micro-feed/internal/models"
	"github.com/SamuelMasih777/micro-feed/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRequest is the body for create and update
type PostRequest struct {
	Content string `json:"content"`
}

// validateContent enforces the 1-280 rune contract. Runs after identity
// resolution and before any store access; a failure has no side effects.
func validateContent(c *gin.Context, content string) bool {
	if strings.TrimSpace(content) == "" {
		util.RespondBadRequest(c, "Post content cannot be empty")
		return false
	}
	if utf8.RuneCountInString(content) > models.MaxContentLength {
		util.RespondBadRequest(c, "Post content cannot exceed 280 characters")
		return false
	}
	return true
}

// parsePostID validates the :id path parameter as a UUID
func parsePostID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		util.RespondBadRequest(c, "Invalid post ID")
		return "", false
	}
	return id, true
}

// CreatePost creates a new post, provisioning the author's profile on
// first use.
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		util.RespondUnauthorized(c)
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid post data")
		return
	}
	if !validateContent(c, req.Content) {
		return
	}

	profile, err := h.ensureProfile(identity)
	if err != nil {
		logger.ErrorWithFields("profile creation failed", err)
		util.RespondInternalError(c, "Failed to create profile")
		return
	}

	post := models.Post{
		AuthorID: identity.ID,
		Content:  req.Content,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		logger.ErrorWithFields("post creation failed", err)
		util.RespondInternalError(c, "Failed to create post")
		return
	}
	post.Author = profile

	metrics.Get().PostsCreated.WithLabelValues().Inc()
	logger.Log.Info("post created",
		logger.WithPostID(post.ID),
		logger.WithUserID(identity.ID),
	)

	// A fresh post cannot have likes yet
	c.JSON(http.StatusCreated, newPostResponse(&post, 0, false))
}

// UpdatePost edits a post's content. Only the author may edit; updated_at
// moving past created_at is what marks the post as edited.
// PATCH /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid post data")
		return
	}
	if !validateContent(c, req.Content) {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c, "Failed to fetch post")
		return
	}
	if post.AuthorID != userID {
		util.RespondForbidden(c)
		return
	}

	if err := database.DB.Model(&post).Update("content", req.Content).Error; err != nil {
		logger.ErrorWithFields("post update failed", err)
		util.RespondInternalError(c, "Failed to update post")
		return
	}

	var updated models.Post
	if err := database.DB.Preload("Author").First(&updated, "id = ?", postID).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch post")
		return
	}

	annotated, err := h.annotatePosts(userID, []models.Post{updated})
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, annotated[0])
}

// DeletePost removes a post and its likes. The likes go in the same
// transaction so the sqlite test store behaves like postgres' FK cascade.
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c, "Failed to fetch post")
		return
	}
	if post.AuthorID != userID {
		util.RespondForbidden(c)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		logger.ErrorWithFields("post deletion failed", err)
		util.RespondInternalError(c, "Failed to delete post")
		return
	}

	logger.Log.Info("post deleted",
		logger.WithPostID(postID),
		logger.WithUserID(userID),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ensureProfile returns the caller's profile, creating it on first post.
// The username comes from the email local-part, or a user_<id> fallback;
// a uniqueness collision is retried exactly once with a time-suffixed
// name, then fails the request.
func (h *Handlers) ensureProfile(identity *auth.Identity) (*models.Profile, error) {
	var profile models.Profile
	err := database.DB.First(&profile, "id = ?", identity.ID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{
		ID:       identity.ID,
		Username: deriveUsername(identity),
	}
	err = database.DB.Create(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	profile.Username = fmt.Sprintf("user_%s_%d", shortID(identity.ID), time.Now().UnixMilli())
	if err := database.DB.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("fallback username failed: %w", err)
	}
	return &profile, nil
}

func deriveUsername(identity *auth.Identity) string {
	if identity.Email != "" {
		if local, _, found := strings.Cut(identity.Email, "@"); found && local != "" {
			return local
		}
	}
	return "user_" + shortID(identity.ID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
