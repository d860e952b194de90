package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maheshrc27/postpilot/internal/models"
)

const linkedinBaseURL = "https://api.linkedin.com"

// LinkedinPublisher posts through the ugcPosts API. The author URN is
// derived from the stored member id.
type LinkedinPublisher struct {
	client  *http.Client
	baseURL string
}

func NewLinkedinPublisher() *LinkedinPublisher {
	return &LinkedinPublisher{client: defaultClient(), baseURL: linkedinBaseURL}
}

func NewLinkedinPublisherWithClient(client *http.Client, baseURL string) *LinkedinPublisher {
	return &LinkedinPublisher{client: client, baseURL: baseURL}
}

func (p *LinkedinPublisher) Platform() string {
	return models.PlatformLinkedin
}

func (p *LinkedinPublisher) Publish(ctx context.Context, creds *Credentials, content *Content) (string, error) {
	payload := map[string]interface{}{
		"author":         fmt.Sprintf("urn:li:person:%s", creds.PlatformUserID),
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary": map[string]string{
					"text": content.Text,
				},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	headers := map[string]string{
		"Authorization":             "Bearer " + creds.AccessToken,
		"X-Restli-Protocol-Version": "2.0.0",
	}

	respBody, err := postJSON(ctx, p.client, p.Platform(), p.baseURL+"/v2/ugcPosts", payload, headers)
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
