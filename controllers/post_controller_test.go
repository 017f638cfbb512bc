package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedScenario(t *testing.T) {
	r := newTestServer(t)

	// register user U
	token := registerUser(t, r, "A", "a@x.com", "secret1")

	// create post with text "hello": likes and comments start empty
	post := createPost(t, r, token, "hello")
	assert.Equal(t, "hello", post["text"])
	assert.Equal(t, []interface{}{}, post["likes"])
	assert.Equal(t, []interface{}{}, post["comments"])
	id := recordID(t, post)

	// like it
	w := doJSON(t, r, http.MethodPut, "/api/post/like/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var likes []map[string]interface{}
	decode(t, w, &likes)
	assert.Len(t, likes, 1)

	// like it again: rejected
	w = doJSON(t, r, http.MethodPut, "/api/post/like/"+id, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Post already liked")

	// unlike: back to zero
	w = doJSON(t, r, http.MethodPut, "/api/post/unlike/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	likes = nil
	decode(t, w, &likes)
	assert.Len(t, likes, 0)
}

func TestCreatePostValidation(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{"text": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Text is required", resp.Errors[0].Msg)
}

func TestListPostsNewestFirst(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")

	createPost(t, r, token, "first")
	createPost(t, r, token, "second")

	w := doJSON(t, r, http.MethodGet, "/api/post", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []map[string]interface{}
	decode(t, w, &posts)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0]["text"])
	assert.Equal(t, "first", posts[1]["text"])
}

func TestGetPostNotFound(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")

	for _, path := range []string{"/api/post/999", "/api/post/not-a-number"} {
		w := doJSON(t, r, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Post not found")
	}
}

func TestDeletePostOwnership(t *testing.T) {
	r := newTestServer(t)
	owner := registerUser(t, r, "A", "a@x.com", "secret1")
	intruder := registerUser(t, r, "B", "b@x.com", "secret1")

	post := createPost(t, r, owner, "mine")
	id := recordID(t, post)

	// non-owner: rejected, post survives
	w := doJSON(t, r, http.MethodDelete, "/api/post/"+id, intruder, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not authorized")

	w = doJSON(t, r, http.MethodGet, "/api/post/"+id, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// owner: removed
	w = doJSON(t, r, http.MethodDelete, "/api/post/"+id, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post removed")

	w = doJSON(t, r, http.MethodGet, "/api/post/"+id, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlikeNeverLiked(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")
	id := recordID(t, createPost(t, r, token, "hello"))

	w := doJSON(t, r, http.MethodPut, "/api/post/unlike/"+id, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Post has not yet been liked")
}

func TestCommentsContract(t *testing.T) {
	r := newTestServer(t)
	author := registerUser(t, r, "A", "a@x.com", "secret1")
	commenter := registerUser(t, r, "B", "b@x.com", "secret1")

	id := recordID(t, createPost(t, r, author, "hello"))

	// empty comment rejected with an errors list
	w := doJSON(t, r, http.MethodPost, "/api/post/comment/"+id, commenter, gin.H{"text": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "errors")

	w = doJSON(t, r, http.MethodPost, "/api/post/comment/"+id, commenter, gin.H{"text": "nice"})
	require.Equal(t, http.StatusOK, w.Code)

	var comments []map[string]interface{}
	decode(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0]["text"])
	// author snapshot of the commenter, not the post author
	assert.Equal(t, "B", comments[0]["name"])
}

func TestDeleteCommentByIdNotByAuthor(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")
	id := recordID(t, createPost(t, r, token, "hello"))

	// comment A then comment B by the same user
	w := doJSON(t, r, http.MethodPost, "/api/post/comment/"+id, token, gin.H{"text": "comment A"})
	require.Equal(t, http.StatusOK, w.Code)
	var comments []map[string]interface{}
	decode(t, w, &comments)
	commentAID := recordID(t, comments[0])

	w = doJSON(t, r, http.MethodPost, "/api/post/comment/"+id, token, gin.H{"text": "comment B"})
	require.Equal(t, http.StatusOK, w.Code)

	// delete A by its id: B must remain
	w = doJSON(t, r, http.MethodDelete, "/api/post/comment/"+id+"/"+commentAID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments = nil
	decode(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "comment B", comments[0]["text"])
}

func TestDeleteCommentErrors(t *testing.T) {
	r := newTestServer(t)
	author := registerUser(t, r, "A", "a@x.com", "secret1")
	intruder := registerUser(t, r, "B", "b@x.com", "secret1")
	id := recordID(t, createPost(t, r, author, "hello"))

	w := doJSON(t, r, http.MethodPost, "/api/post/comment/"+id, author, gin.H{"text": "mine"})
	require.Equal(t, http.StatusOK, w.Code)
	var comments []map[string]interface{}
	decode(t, w, &comments)
	commentID := recordID(t, comments[0])

	// missing comment
	w = doJSON(t, r, http.MethodDelete, "/api/post/comment/"+id+"/99999", author, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Comment does not exist")

	// wrong owner
	w = doJSON(t, r, http.MethodDelete, "/api/post/comment/"+id+"/"+commentID, intruder, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not authorized")
}

func TestMutationsRateLimited(t *testing.T) {
	// two per minute yields a burst of one: registration spends it, so the
	// next mutation from the same IP must be rejected while reads still pass
	r := newTestServerRateLimited(t, 2)
	token := registerUser(t, r, "A", "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{"text": "hello"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")

	w = doJSON(t, r, http.MethodGet, "/api/post", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostTextIsSanitized(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")

	post := createPost(t, r, token, `hello <script>alert("x")</script>world`)
	text, _ := post["text"].(string)
	assert.NotContains(t, text, "<script>")
	assert.Contains(t, text, "hello")
}

func TestPostJSONShape(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "A", "a@x.com", "secret1")
	post := createPost(t, r, token, "hello")

	for _, key := range []string{"id", "user", "text", "name", "avatar", "likes", "comments", "date"} {
		_, ok := post[key]
		assert.True(t, ok, "missing key %q in %v", key, post)
	}

	b, err := json.Marshal(post)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
}
