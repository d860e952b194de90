package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

const (
	linkedinAuthURL  = "https://www.linkedin.com/oauth/v2/authorization"
	linkedinTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinUserURL  = "https://api.linkedin.com/v2/userinfo"

	instagramAuthURL  = "https://www.instagram.com/oauth/authorize"
	instagramTokenURL = "https://api.instagram.com/oauth/access_token"

	facebookAuthURL = "https://www.facebook.com/v19.0/dialog/oauth"
	xAuthURL        = "https://twitter.com/i/oauth2/authorize"
)

type AccountService interface {
	GetAuthURL(ctx context.Context, platform, state string) string
	LinkedinCallback(ctx context.Context, code string, userID int64) error
	InstagramCallback(ctx context.Context, code string, userID int64) error
	ConnectWithToken(ctx context.Context, userID int64, conn *transfer.AccountConnection) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error)
	Delete(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	cfg config.Config
	ca  repository.ConnectedAccountRepository
}

func NewAccountService(cfg config.Config, ca repository.ConnectedAccountRepository) AccountService {
	return &accountService{
		cfg: cfg,
		ca:  ca,
	}
}

func (s *accountService) GetAuthURL(ctx context.Context, platform, state string) string {
	switch platform {
	case models.PlatformLinkedin:
		params := url.Values{}
		params.Add("response_type", "code")
		params.Add("client_id", s.cfg.LinkedinClientID)
		params.Add("redirect_uri", s.cfg.LinkedinRedirectURI)
		params.Add("scope", "openid profile email w_member_social")
		params.Add("state", state)
		return fmt.Sprintf("%s?%s", linkedinAuthURL, params.Encode())

	case models.PlatformInstagram:
		params := url.Values{}
		params.Add("client_id", s.cfg.InstagramClientID)
		params.Add("scope", "instagram_business_basic,instagram_business_content_publish")
		params.Add("response_type", "code")
		params.Add("redirect_uri", s.cfg.InstagramRedirectURI)
		params.Add("state", state)
		return fmt.Sprintf("%s?%s", instagramAuthURL, params.Encode())

	case models.PlatformFacebook:
		params := url.Values{}
		params.Add("client_id", s.cfg.FacebookClientID)
		params.Add("redirect_uri", s.cfg.FacebookRedirectURI)
		params.Add("scope", "pages_manage_posts,pages_read_engagement")
		params.Add("state", state)
		return fmt.Sprintf("%s?%s", facebookAuthURL, params.Encode())

	case models.PlatformX:
		params := url.Values{}
		params.Add("response_type", "code")
		params.Add("client_id", s.cfg.XClientID)
		params.Add("redirect_uri", s.cfg.XRedirectURI)
		params.Add("scope", "tweet.read tweet.write users.read offline.access")
		params.Add("state", state)
		return fmt.Sprintf("%s?%s", xAuthURL, params.Encode())

	default:
		return ""
	}
}

// LinkedinCallback exchanges the authorization code, resolves the
// member identity and upserts the connected account with the token
// encrypted at rest.
func (s *accountService) LinkedinCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}
	if userID == 0 {
		err := errors.New("user not found")
		slog.Info(err.Error())
		return err
	}

	token, err := s.exchangeLinkedinCode(ctx, code)
	if err != nil {
		return err
	}

	userInfo, err := s.getLinkedinUserInfo(ctx, token.AccessToken)
	if err != nil {
		return err
	}
	if userInfo.Sub == "" {
		err = errors.New("failed to retrieve linkedin account identity")
		slog.Info(err.Error())
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	expiresIn := token.ExpiresIn
	if expiresIn == 0 {
		// LinkedIn tokens default to 60 days when no lifetime comes back.
		expiresIn = 60 * 24 * 60 * 60
	}

	account := &models.ConnectedAccount{
		UserID:         userID,
		Platform:       models.PlatformLinkedin,
		PlatformUserID: userInfo.Sub,
		AccessToken:    encryptedAccessToken,
		TokenExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}

	_, err = s.ca.Upsert(ctx, account)
	return err
}

func (s *accountService) exchangeLinkedinCode(ctx context.Context, code string) (*transfer.LinkedinToken, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", s.cfg.LinkedinClientID)
	data.Set("client_secret", s.cfg.LinkedinClientSecret)
	data.Set("redirect_uri", s.cfg.LinkedinRedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedinTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange linkedin code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from linkedin token endpoint: %d", resp.StatusCode)
	}

	var token transfer.LinkedinToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode linkedin token response: %w", err)
	}

	return &token, nil
}

func (s *accountService) getLinkedinUserInfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinUserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var userInfo transfer.LinkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &userInfo, nil
}

func (s *accountService) InstagramCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}
	if userID == 0 {
		err := errors.New("user not found")
		slog.Info(err.Error())
		return err
	}

	token, err := s.exchangeInstagramCode(ctx, code)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	expiresIn := token.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}

	account := &models.ConnectedAccount{
		UserID:         userID,
		Platform:       models.PlatformInstagram,
		PlatformUserID: strconv.FormatInt(token.UserID, 10),
		AccessToken:    encryptedAccessToken,
		TokenExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}

	_, err = s.ca.Upsert(ctx, account)
	return err
}

func (s *accountService) exchangeInstagramCode(ctx context.Context, code string) (*transfer.InstagramToken, error) {
	data := url.Values{}
	data.Set("client_id", s.cfg.InstagramClientID)
	data.Set("client_secret", s.cfg.InstagramClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", s.cfg.InstagramRedirectURI)
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, instagramTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange instagram code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from instagram token endpoint: %d", resp.StatusCode)
	}

	var token transfer.InstagramToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode instagram token response: %w", err)
	}

	return &token, nil
}

// ConnectWithToken stores a credential the client obtained on its own
// (facebook page tokens and x tokens arrive this way).
func (s *accountService) ConnectWithToken(ctx context.Context, userID int64, conn *transfer.AccountConnection) (int64, error) {
	if !models.IsKnownPlatform(conn.Platform) {
		return 0, fmt.Errorf("unknown platform %q", conn.Platform)
	}
	if conn.AccessToken == "" || conn.PlatformUserID == "" {
		return 0, errors.New("access token and platform user id are required")
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(conn.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return 0, err
	}

	var encryptedRefreshToken string
	if conn.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(conn.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return 0, err
		}
	}

	account := &models.ConnectedAccount{
		UserID:         userID,
		Platform:       conn.Platform,
		PlatformUserID: conn.PlatformUserID,
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TokenExpiresAt: time.Now().Add(time.Duration(conn.ExpiresIn) * time.Second),
	}

	return s.ca.Upsert(ctx, account)
}

func (s *accountService) List(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error) {
	if userID == 0 {
		err := errors.New("user id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.ca.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting connected accounts")
	}

	return accounts, nil
}

func (s *accountService) Delete(ctx context.Context, userID, accountID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("user id is not valid")
		slog.Info(err.Error())
		return err
	}

	if accountID == 0 {
		err = errors.New("account id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.ca.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("connected account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.ca.Remove(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error removing account")
	}

	return nil
}
