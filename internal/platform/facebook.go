package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maheshrc27/postpilot/internal/models"
)

const facebookBaseURL = "https://graph.facebook.com"

// FacebookPublisher posts to the page feed endpoint. A media URL, when
// present, rides along as a link attachment.
type FacebookPublisher struct {
	client  *http.Client
	baseURL string
}

func NewFacebookPublisher() *FacebookPublisher {
	return &FacebookPublisher{client: defaultClient(), baseURL: facebookBaseURL}
}

func NewFacebookPublisherWithClient(client *http.Client, baseURL string) *FacebookPublisher {
	return &FacebookPublisher{client: client, baseURL: baseURL}
}

func (p *FacebookPublisher) Platform() string {
	return models.PlatformFacebook
}

func (p *FacebookPublisher) Publish(ctx context.Context, creds *Credentials, content *Content) (string, error) {
	url := fmt.Sprintf("%s/v19.0/%s/feed", p.baseURL, creds.PlatformUserID)
	payload := map[string]interface{}{
		"message":      content.Text,
		"access_token": creds.AccessToken,
	}
	if content.MediaURL != "" {
		payload["link"] = content.MediaURL
	}

	respBody, err := postJSON(ctx, p.client, p.Platform(), url, payload, nil)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	return result.ID, nil
}
