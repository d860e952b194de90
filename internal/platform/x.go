package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maheshrc27/postpilot/internal/models"
)

const xBaseURL = "https://api.twitter.com"

// XPublisher posts through the v2 tweets endpoint.
type XPublisher struct {
	client  *http.Client
	baseURL string
}

func NewXPublisher() *XPublisher {
	return &XPublisher{client: defaultClient(), baseURL: xBaseURL}
}

func NewXPublisherWithClient(client *http.Client, baseURL string) *XPublisher {
	return &XPublisher{client: client, baseURL: baseURL}
}

func (p *XPublisher) Platform() string {
	return models.PlatformX
}

func (p *XPublisher) Publish(ctx context.Context, creds *Credentials, content *Content) (string, error) {
	text := content.Text
	if content.MediaURL != "" {
		text = text + " " + content.MediaURL
	}

	payload := map[string]string{"text": text}
	headers := map[string]string{
		"Authorization": "Bearer " + creds.AccessToken,
	}

	respBody, err := postJSON(ctx, p.client, p.Platform(), p.baseURL+"/2/tweets", payload, headers)
	if err != nil {
		return "", err
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	return result.Data.ID, nil
}
