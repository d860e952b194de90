package transfer

// AccountConnection connects a platform account directly with an
// already-obtained token (facebook and x, whose token acquisition
// happens on the client).
type AccountConnection struct {
	Platform       string `json:"platform"`
	PlatformUserID string `json:"platform_user_id"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	ExpiresIn      int64  `json:"expires_in"`
}

type LinkedinToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type LinkedinUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type InstagramToken struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
	ExpiresIn   int64  `json:"expires_in"`
}

type InstagramUserInfo struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
