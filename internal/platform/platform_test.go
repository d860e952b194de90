package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	reg := platform.NewRegistry(
		platform.NewInstagramPublisher(),
		platform.NewLinkedinPublisher(),
		platform.NewFacebookPublisher(),
		platform.NewXPublisher(),
	)

	for _, name := range []string{
		models.PlatformInstagram,
		models.PlatformLinkedin,
		models.PlatformFacebook,
		models.PlatformX,
	} {
		p, err := reg.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Platform())
	}

	_, err := reg.Lookup("myspace")
	assert.Error(t, err)
}

func TestXPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "Bearer x-token", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gm https://cdn.example.com/pic.png", payload["text"])

		json.NewEncoder(w).Encode(map[string]map[string]string{"data": {"id": "1800000000000000000"}})
	}))
	defer server.Close()

	p := platform.NewXPublisherWithClient(server.Client(), server.URL)

	postID, err := p.Publish(context.Background(),
		&platform.Credentials{AccessToken: "x-token", PlatformUserID: "u1"},
		&platform.Content{Text: "gm", MediaURL: "https://cdn.example.com/pic.png"})

	require.NoError(t, err)
	assert.Equal(t, "1800000000000000000", postID)
}

func TestFacebookPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v19.0/page-3/feed", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sale starts now", payload["message"])
		assert.Equal(t, "fb-token", payload["access_token"])
		assert.Equal(t, "https://cdn.example.com/banner.png", payload["link"])

		json.NewEncoder(w).Encode(map[string]string{"id": "page-3_555"})
	}))
	defer server.Close()

	p := platform.NewFacebookPublisherWithClient(server.Client(), server.URL)

	postID, err := p.Publish(context.Background(),
		&platform.Credentials{AccessToken: "fb-token", PlatformUserID: "page-3"},
		&platform.Content{Text: "sale starts now", MediaURL: "https://cdn.example.com/banner.png"})

	require.NoError(t, err)
	assert.Equal(t, "page-3_555", postID)
}
