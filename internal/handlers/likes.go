package handlers

import (
	"errors"
	"net/http"

	"github.com/SamuelMasih777/micro-feed/internal/database"
	apierrors "github.com/SamuelMasih777/micro-feed/internal/errors"
	"github.com/SamuelMasih777/micro-feed/internal/logger"
	"github.com/SamuelMasih777/micro-feed/internal/metrics"
	"github.com/SamuelMasih777/micro-feed/internal/models"
	"github.com/SamuelMasih777/micro-feed/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LikePost records a like for the current user. Liking twice is a
// precondition failure, not an idempotent no-op: the pre-check gives the
// friendly error, and the composite primary key catches the race where
// two requests pass the pre-check together.
// POST /api/v1/posts/:id/like
func (h *Handlers) LikePost(c *gin.Context) {
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
		util.RespondInternalError(c, "Failed to find post")
		return
	}

	var existing models.Like
	err := database.DB.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	if err == nil {
		util.RespondWithAPIError(c, apierrors.AlreadyLiked())
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "Failed to like post")
		return
	}

	like := models.Like{
		PostID: postID,
		UserID: userID,
	}
	if err := database.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent like; same outcome
			util.RespondWithAPIError(c, apierrors.AlreadyLiked())
			return
		}
		logger.ErrorWithFields("like insert failed", err)
		util.RespondInternalError(c, "Failed to like post")
		return
	}

	metrics.Get().LikesTotal.WithLabelValues("like").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Post liked successfully"})
}

// UnlikePost removes the current user's like. Idempotent: unliking a post
// that was never liked is a success, and no existence check is made.
// DELETE /api/v1/posts/:id/like
func (h *Handlers) UnlikePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	err := database.DB.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
	if err != nil {
		logger.ErrorWithFields("unlike failed", err)
		util.RespondInternalError(c, "Failed to unlike post")
		return
	}

	metrics.Get().LikesTotal.WithLabelValues("unlike").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Post unliked successfully"})
}
