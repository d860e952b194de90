package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	openAIChatURL  = "https://api.openai.com/v1/chat/completions"
	openAIImageURL = "https://api.openai.com/v1/images/generations"
)

var ErrNoImageCredits = errors.New("insufficient image credits")

// AIService generates post copy and images. Image generation costs a
// credit, consumed up front with the repository's conditional
// decrement and refunded if generation fails.
type AIService interface {
	GenerateText(ctx context.Context, userID int64, req *transfer.TextGeneration) (string, error)
	GenerateImage(ctx context.Context, userID int64, req *transfer.ImageGeneration) (*transfer.GeneratedImage, error)
}

type aiService struct {
	cfg config.Config
	br  repository.BrandRepository
	sr  repository.SubscriptionRepository
	ma  repository.MediaAssetRepository
	r2  *R2Service
}

func NewAIService(
	cfg config.Config,
	br repository.BrandRepository,
	sr repository.SubscriptionRepository,
	ma repository.MediaAssetRepository,
	r2 *R2Service) AIService {
	return &aiService{
		cfg: cfg,
		br:  br,
		sr:  sr,
		ma:  ma,
		r2:  r2,
	}
}

func (s *aiService) GenerateText(ctx context.Context, userID int64, req *transfer.TextGeneration) (string, error) {
	if req.Prompt == "" {
		return "", errors.New("prompt cannot be empty")
	}

	brand, err := s.br.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	systemPrompt := buildSystemPrompt(brand, req)

	payload := map[string]interface{}{
		"model": "gpt-4-turbo-preview",
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": req.Prompt},
		},
	}

	respBody, err := s.callOpenAI(ctx, openAIChatURL, payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing completion response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	return result.Choices[0].Message.Content, nil
}

func buildSystemPrompt(brand *models.BrandProfile, req *transfer.TextGeneration) string {
	industry := "Unknown"
	tone := req.Tone
	audience := "General"
	if brand != nil {
		if brand.Industry != "" {
			industry = brand.Industry
		}
		if tone == "" {
			tone = brand.Tone
		}
		if brand.TargetAudience != "" {
			audience = brand.TargetAudience
		}
	}
	if tone == "" {
		tone = "Professional"
	}
	platform := req.Platform
	if platform == "" {
		platform = "general"
	}

	return fmt.Sprintf(
		"You are a social media expert. Generate a high-engaging %s post for a brand. Industry: %s. Tone: %s. Target Audience: %s.",
		platform, industry, tone, audience)
}

func (s *aiService) GenerateImage(ctx context.Context, userID int64, req *transfer.ImageGeneration) (*transfer.GeneratedImage, error) {
	if req.Prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	// Consume the credit before generating: the decrement is atomic,
	// so two concurrent requests can never spend the same credit.
	ok, err := s.sr.ConsumeImageCredit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoImageCredits
	}

	image, err := s.generateAndStore(ctx, userID, req.Prompt)
	if err != nil {
		if refundErr := s.sr.RefundImageCredit(ctx, userID); refundErr != nil {
			slog.Error(fmt.Sprintf("error refunding image credit for user %d: %v", userID, refundErr))
		}
		return nil, err
	}

	return image, nil
}

func (s *aiService) generateAndStore(ctx context.Context, userID int64, prompt string) (*transfer.GeneratedImage, error) {
	payload := map[string]interface{}{
		"model":  "dall-e-3",
		"prompt": prompt,
		"n":      1,
		"size":   "1024x1024",
	}

	respBody, err := s.callOpenAI(ctx, openAIImageURL, payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error parsing image response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, errors.New("no image returned")
	}

	imageBytes, err := downloadImage(ctx, result.Data[0].URL)
	if err != nil {
		return nil, err
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.r2.Upload(ctx, key, imageBytes, "image/png"); err != nil {
		return nil, fmt.Errorf("error uploading generated image: %w", err)
	}

	asset := &models.MediaAsset{
		UserID:   userID,
		FileName: key,
		FileType: "image/png",
		FileSize: int64(len(imageBytes)),
		FileURL:  s.r2.PublicURL(key),
	}

	assetID, err := s.ma.Create(ctx, nil, asset)
	if err != nil {
		return nil, fmt.Errorf("error saving generated image: %w", err)
	}

	return &transfer.GeneratedImage{
		MediaRef: assetID,
		URL:      asset.FileURL,
	}, nil
}

func (s *aiService) callOpenAI(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload: %w", err)
	}

	client := &http.Client{Timeout: 2 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenAIKey)

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("openai request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from openai: %d: %s", resp.StatusCode, respBody)
	}

	return respBody, nil
}

func downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code downloading image: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
