package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maheshrc27/postpilot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedinPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "urn:li:person:member-7", payload["author"])
		assert.Equal(t, "PUBLISHED", payload["lifecycleState"])

		share := payload["specificContent"].(map[string]interface{})["com.linkedin.ugc.ShareContent"].(map[string]interface{})
		commentary := share["shareCommentary"].(map[string]interface{})
		assert.Equal(t, "big announcement", commentary["text"])

		json.NewEncoder(w).Encode(map[string]string{"id": "urn:li:share:123"})
	}))
	defer server.Close()

	p := platform.NewLinkedinPublisherWithClient(server.Client(), server.URL)

	postID, err := p.Publish(context.Background(),
		&platform.Credentials{AccessToken: "li-token", PlatformUserID: "member-7"},
		&platform.Content{Text: "big announcement"})

	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:123", postID)
}

func TestLinkedinPublishRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	p := platform.NewLinkedinPublisherWithClient(server.Client(), server.URL)

	_, err := p.Publish(context.Background(),
		&platform.Credentials{AccessToken: "stale", PlatformUserID: "member-7"},
		&platform.Content{Text: "hi"})

	require.Error(t, err)
	assert.True(t, platform.IsRejected(err))
	assert.Contains(t, err.Error(), "token expired")
}
