package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SamuelMasih777/micro-feed/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CREATE POST TESTS
// =============================================================================

func (suite *HandlersTestSuite) TestCreatePost() {
	t := suite.T()

	w := suite.doJSON("POST", "/api/v1/posts", map[string]string{"content": "hello feed"}, suite.alice.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	post := suite.decodePost(w)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, suite.alice.ID, post.AuthorID)
	assert.Equal(t, "hello feed", post.Content)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Equal(t, int64(0), post.LikesCount)
	assert.False(t, post.IsLiked)
}

func (suite *HandlersTestSuite) TestCreatePostProvisionsProfile() {
	t := suite.T()

	carolID := uuid.New().String()
	body, _ := json.Marshal(map[string]string{"content": "first post"})
	req, _ := http.NewRequest("POST", "/api/v1/posts", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", carolID)
	req.Header.Set("X-User-Email", "carol@example.com")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var profile models.Profile
	require.NoError(t, suite.db.First(&profile, "id = ?", carolID).Error)
	assert.Equal(t, "carol", profile.Username)

	post := suite.decodePost(w)
	assert.Equal(t, "carol", post.Author.Username)
}

func (suite *HandlersTestSuite) TestCreatePostProfileUsernameWithoutEmail() {
	t := suite.T()

	daveID := uuid.New().String()
	w := suite.doJSON("POST", "/api/v1/posts", map[string]string{"content": "no email here"}, daveID)
	require.Equal(t, http.StatusCreated, w.Code)

	var profile models.Profile
	require.NoError(t, suite.db.First(&profile, "id = ?", daveID).Error)
	assert.Equal(t, "user_"+daveID[:8], profile.Username)
}

func (suite *HandlersTestSuite) TestCreatePostUsernameCollisionRetries() {
	t := suite.T()

	// Occupy the derived username so the first create collides
	taken := &models.Profile{ID: uuid.New().String(), Username: "erin"}
	require.NoError(t, suite.db.Create(taken).Error)

	erinID := uuid.New().String()
	body, _ := json.Marshal(map[string]string{"content": "collision post"})
	req, _ := http.NewRequest("POST", "/api/v1/posts", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", erinID)
	req.Header.Set("X-User-Email", "erin@example.com")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var profile models.Profile
	require.NoError(t, suite.db.First(&profile, "id = ?", erinID).Error)
	assert.True(t, strings.HasPrefix(profile.Username, "user_"+erinID[:8]+"_"), "got username %q", profile.Username)
}

func (suite *HandlersTestSuite) TestCreatePostEmptyContent() {
	t := suite.T()

	for _, content := range []string{"", "   ", "\n\t "} {
		w := suite.doJSON("POST", "/api/v1/posts", map[string]string{"content": content}, suite.alice.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Post content cannot be empty")
	}

	var count int64
	suite.db.Model(&models.Post{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestCreatePostContentLengthBoundary() {
	t := suite.T()

	// 280 runes of a multi-byte character is fine
	ok := strings.Repeat("é", 280)
	w := suite.doJSON("POST", "/api/v1/posts", map[string]string{"content": ok}, suite.alice.ID)
	assert.Equal(t, http.StatusCreated, w.Code)

	// 281 runes is not
	tooLong := strings.Repeat("é", 281)
	w = suite.doJSON("POST", "/api/v1/posts", map[string]string{"content": tooLong}, suite.alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot exceed 280 characters")
}

func (suite *HandlersTestSuite) TestCreatePostRequiresAuth() {
	t := suite.T()

	w := suite.doJSON("POST", "/api/v1/posts", map[string]string{"content": "anon"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// =============================================================================
// UPDATE POST TESTS
// =============================================================================

func (suite *HandlersTestSuite) TestUpdatePostByAuthor() {
	t := suite.T()

	post := suite.createPost(suite.alice.ID, "original", time.Now().UTC().Add(-time.Minute))

	w := suite.doJSON("PATCH", "/api/v1/posts/"+post.ID, map[string]string{"content": "edited"}, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	updated := suite.decodePost(w)
	assert.Equal(t, "edited", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt), "updated_at should move past created_at")
}

func (suite *HandlersTestSuite) TestUpdatePostRecomputesAnnotations() {
	t := suite.T()

	post := suite.createPost(suite.alice.ID, "liked post", time.Now().UTC().Add(-time.Minute))
	require.NoError(t, suite.db.Create(&models.Like{PostID: post.ID, UserID: suite.bob.ID}).Error)

	w := suite.doJSON("PATCH", "/api/v1/posts/"+post.ID, map[string]string{"content": "still liked"}, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	updated := suite.decodePost(w)
	assert.Equal(t, int64(1), updated.LikesCount)
	assert.False(t, updated.IsLiked, "the author did not like their own post")
}

func (suite *HandlersTestSuite) TestUpdatePostNotAuthor() {
	t := suite.T()

	post := suite.createPost(suite.alice.ID, "alice's post", time.Now().UTC())

	w := suite.doJSON("PATCH", "/api/v1/posts/"+post.ID, map[string]string{"content": "bob was here"}, suite.bob.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.Post
	require.NoError(t, suite.db.First(&unchanged, "id = ?", post.ID).Error)
	assert.Equal(t, "alice's post", unchanged.Content)
}

func (suite *HandlersTestSuite) TestUpdatePostNotFound() {
	t := suite.T()

	w := suite.doJSON("PATCH", "/api/v1/posts/"+uuid.New().String(), map[string]string{"content": "ghost"}, suite.alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUpdatePostInvalidID() {
	t := suite.T()

	w := suite.doJSON("PATCH", "/api/v1/posts/not-a-uuid", map[string]string{"content": "x"}, suite.alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid post ID")
}

func (suite *HandlersTestSuite) TestUpdatePostValidatesContent() {
	t := suite.T()

	post := suite.createPost(suite.alice.ID, "fine", time.Now().UTC())

	w := suite.doJSON("PATCH", "/api/v1/posts/"+post.ID, map[string]string{"content": "  "}, suite.alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// DELETE POST TESTS
// =============================================================================

func (suite *HandlersTestSuite) TestDeletePost() {
	t := suite.T()

	post := suite.createPost(suite.alice.ID, "doomed", time.Now().UTC())
	require.NoError(t, suite.db.Create(&models.Like{PostID: post.ID, UserID: suite.bob.ID}).Error)

	w := suite.doJSON("DELETE", "/api/v1/posts/"+post.ID, nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post deleted successfully")

	var postCount, likeCount int64
	suite.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount)
	suite.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount)
	assert.Equal(t, int64(0), postCount)
	assert.Equal(t, int64(0), likeCount, "likes should die with the post")
}

func (suite *HandlersTestSuite) TestDeletePostNotAuthor() {
	t := suite.T()

	post := suite.createPost(suite.alice.ID, "protected", time.Now().UTC())

	w := suite.doJSON("DELETE", "/api/v1/posts/"+post.ID, nil, suite.bob.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestDeletePostNotFound() {
	t := suite.T()

	w := suite.doJSON("DELETE", "/api/v1/posts/"+uuid.New().String(), nil, suite.alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
