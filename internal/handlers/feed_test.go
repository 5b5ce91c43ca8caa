package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SamuelMasih777/micro-feed/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FEED TESTS
// =============================================================================

func (suite *HandlersTestSuite) TestFeedEmpty() {
	t := suite.T()

	w := suite.doJSON("GET", "/api/v1/posts", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	feed := suite.decodeFeed(w)
	assert.Empty(t, feed.Posts)
	assert.False(t, feed.HasMore)
	assert.Nil(t, feed.NextCursor)
}

func (suite *HandlersTestSuite) TestFeedNewestFirst() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	suite.createPost(suite.alice.ID, "oldest", base)
	suite.createPost(suite.bob.ID, "middle", base.Add(time.Minute))
	suite.createPost(suite.alice.ID, "newest", base.Add(2*time.Minute))

	w := suite.doJSON("GET", "/api/v1/posts", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	feed := suite.decodeFeed(w)
	require.Len(t, feed.Posts, 3)
	assert.Equal(t, "newest", feed.Posts[0].Content)
	assert.Equal(t, "middle", feed.Posts[1].Content)
	assert.Equal(t, "oldest", feed.Posts[2].Content)
	assert.False(t, feed.HasMore)
}

func (suite *HandlersTestSuite) TestFeedPaginationWalk() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		suite.createPost(suite.alice.ID, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	seen := make(map[string]bool)
	cursor := ""
	pages := 0
	for {
		path := "/api/v1/posts?limit=2"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}
		w := suite.doJSON("GET", path, nil, suite.alice.ID)
		require.Equal(t, http.StatusOK, w.Code)
		feed := suite.decodeFeed(w)
		pages++

		for _, post := range feed.Posts {
			assert.False(t, seen[post.ID], "post %s returned twice", post.ID)
			seen[post.ID] = true
		}

		if !feed.HasMore {
			assert.Nil(t, feed.NextCursor)
			break
		}
		require.NotNil(t, feed.NextCursor)
		require.Len(t, feed.Posts, 2)
		cursor = *feed.NextCursor
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 5)
}

func (suite *HandlersTestSuite) TestFeedFilterMine() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	suite.createPost(suite.alice.ID, "mine", base)
	suite.createPost(suite.bob.ID, "not mine", base.Add(time.Minute))

	w := suite.doJSON("GET", "/api/v1/posts?filter=mine", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	feed := suite.decodeFeed(w)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "mine", feed.Posts[0].Content)
	assert.Equal(t, suite.alice.ID, feed.Posts[0].AuthorID)
}

func (suite *HandlersTestSuite) TestFeedSearchCaseInsensitive() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	suite.createPost(suite.alice.ID, "Gopher news", base)
	suite.createPost(suite.bob.ID, "unrelated", base.Add(time.Minute))
	suite.createPost(suite.bob.ID, "more GOPHER talk", base.Add(2*time.Minute))

	w := suite.doJSON("GET", "/api/v1/posts?query=gopher", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	feed := suite.decodeFeed(w)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, "more GOPHER talk", feed.Posts[0].Content)
	assert.Equal(t, "Gopher news", feed.Posts[1].Content)
}

func (suite *HandlersTestSuite) TestFeedSearchCombinesWithFilter() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	suite.createPost(suite.alice.ID, "gopher by alice", base)
	suite.createPost(suite.bob.ID, "gopher by bob", base.Add(time.Minute))

	w := suite.doJSON("GET", "/api/v1/posts?query=gopher&filter=mine", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	feed := suite.decodeFeed(w)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "gopher by alice", feed.Posts[0].Content)
}

func (suite *HandlersTestSuite) TestFeedInvalidCursor() {
	t := suite.T()

	w := suite.doJSON("GET", "/api/v1/posts?cursor=yesterday", nil, suite.alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid cursor")
}

func (suite *HandlersTestSuite) TestFeedInvalidLimitFallsBack() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		suite.createPost(suite.alice.ID, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	w := suite.doJSON("GET", "/api/v1/posts?limit=notanumber", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	feed := suite.decodeFeed(w)
	assert.Len(t, feed.Posts, 3)

	// Zero and negative limits clamp up to one post
	w = suite.doJSON("GET", "/api/v1/posts?limit=0", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	feed = suite.decodeFeed(w)
	assert.Len(t, feed.Posts, 1)
}

func (suite *HandlersTestSuite) TestFeedAnnotationsPerUser() {
	t := suite.T()

	base := time.Now().UTC().Add(-time.Hour)
	post1 := suite.createPost(suite.alice.ID, "popular", base)
	post2 := suite.createPost(suite.bob.ID, "quiet", base.Add(time.Minute))

	require.NoError(t, suite.db.Create(&models.Like{PostID: post1.ID, UserID: suite.alice.ID}).Error)
	require.NoError(t, suite.db.Create(&models.Like{PostID: post1.ID, UserID: suite.bob.ID}).Error)

	// Alice sees her own like on post1
	w := suite.doJSON("GET", "/api/v1/posts", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	feed := suite.decodeFeed(w)
	require.Len(t, feed.Posts, 2)

	byID := make(map[string]PostResponse)
	for _, post := range feed.Posts {
		byID[post.ID] = post
	}
	assert.Equal(t, int64(2), byID[post1.ID].LikesCount)
	assert.True(t, byID[post1.ID].IsLiked)
	assert.Equal(t, int64(0), byID[post2.ID].LikesCount)
	assert.False(t, byID[post2.ID].IsLiked)

	// A third user sees the same counts but no is_liked
	w = suite.doJSON("GET", "/api/v1/posts", nil, uuid.New().String())
	require.Equal(t, http.StatusOK, w.Code)
	feed = suite.decodeFeed(w)
	for _, post := range feed.Posts {
		assert.False(t, post.IsLiked)
	}
}

func (suite *HandlersTestSuite) TestFeedAuthorFallback() {
	t := suite.T()

	// A post whose author has no profile row renders as Unknown
	suite.createPost(uuid.New().String(), "orphaned", time.Now().UTC())

	w := suite.doJSON("GET", "/api/v1/posts", nil, suite.alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	feed := suite.decodeFeed(w)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "Unknown", feed.Posts[0].Author.Username)
}
