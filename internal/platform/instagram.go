package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maheshrc27/postpilot/internal/models"
)

const instagramBaseURL = "https://graph.facebook.com"

// InstagramPublisher speaks the Graph API two-phase protocol: create a
// media container, then publish it. Instagram has no text-only posts,
// so a missing media URL fails before any network call.
type InstagramPublisher struct {
	client  *http.Client
	baseURL string
}

func NewInstagramPublisher() *InstagramPublisher {
	return &InstagramPublisher{client: defaultClient(), baseURL: instagramBaseURL}
}

// NewInstagramPublisherWithClient overrides transport and endpoint,
// used by tests to point the adapter at a local server.
func NewInstagramPublisherWithClient(client *http.Client, baseURL string) *InstagramPublisher {
	return &InstagramPublisher{client: client, baseURL: baseURL}
}

func (p *InstagramPublisher) Platform() string {
	return models.PlatformInstagram
}

func (p *InstagramPublisher) Publish(ctx context.Context, creds *Credentials, content *Content) (string, error) {
	if content.MediaURL == "" {
		return "", &RejectedError{
			Platform: p.Platform(),
			Body:     "instagram posts require a media asset; none was attached",
		}
	}

	containerID, err := p.createContainer(ctx, creds, content)
	if err != nil {
		return "", err
	}

	return p.publishContainer(ctx, creds, containerID)
}

func (p *InstagramPublisher) createContainer(ctx context.Context, creds *Credentials, content *Content) (string, error) {
	url := fmt.Sprintf("%s/v19.0/%s/media", p.baseURL, creds.PlatformUserID)
	payload := map[string]interface{}{
		"image_url":    content.MediaURL,
		"caption":      content.Text,
		"access_token": creds.AccessToken,
	}

	respBody, err := postJSON(ctx, p.client, p.Platform(), url, payload, nil)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing container response: %w", err)
	}
	if result.ID == "" {
		return "", &RejectedError{Platform: p.Platform(), Body: "no container id returned from instagram"}
	}

	return result.ID, nil
}

func (p *InstagramPublisher) publishContainer(ctx context.Context, creds *Credentials, containerID string) (string, error) {
	url := fmt.Sprintf("%s/v19.0/%s/media_publish", p.baseURL, creds.PlatformUserID)
	payload := map[string]string{
		"creation_id":  containerID,
		"access_token": creds.AccessToken,
	}

	respBody, err := postJSON(ctx, p.client, p.Platform(), url, payload, nil)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing publish response: %w", err)
	}

	return result.ID, nil
}
