package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

// GoogleConfig holds the OAuth client settings for the Google sign-in
// flow. The exchange produces an id_token that the backend verifies;
// this side never validates the Google signature itself.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string

	AuthURL  string
	TokenURL string

	HTTPClient *http.Client
}

// GoogleFlow drives the browser half of Google sign-in: build the
// consent URL, exchange the returned code for an id_token, hand the
// id_token to AuthService.FederatedLogin.
type GoogleFlow struct {
	config GoogleConfig
	http   *http.Client
}

// NewGoogleFlow creates a flow with defaults filled in.
func NewGoogleFlow(cfg GoogleConfig) *GoogleFlow {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = googleAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = googleTokenURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &GoogleFlow{config: cfg, http: client}
}

// NewState returns a fresh nonce to round-trip through the consent
// redirect. Callers stash it in a cookie and compare on callback.
func (g *GoogleFlow) NewState() string {
	return uuid.NewString()
}

// AuthCodeURL builds the consent page URL carrying state.
func (g *GoogleFlow) AuthCodeURL(state string) string {
	params := url.Values{
		"client_id":     {g.config.ClientID},
		"redirect_uri":  {g.config.CallbackURL},
		"response_type": {"code"},
		"scope":         {strings.Join(g.config.Scopes, " ")},
		"state":         {state},
		"access_type":   {"offline"},
	}

	return g.config.AuthURL + "?" + params.Encode()
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// Exchange trades the callback code for the id_token.
func (g *GoogleFlow) Exchange(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"client_id":     {g.config.ClientID},
		"client_secret": {g.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {g.config.CallbackURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", NetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NetworkError(err)
	}

	var tokenResp googleTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", FederatedAuthError("invalid token response from identity provider")
	}

	if resp.StatusCode != http.StatusOK || tokenResp.Error != "" {
		desc := tokenResp.ErrorDesc
		if desc == "" {
			desc = tokenResp.Error
		}
		if desc == "" {
			desc = fmt.Sprintf("code exchange failed with status %d", resp.StatusCode)
		}
		return "", FederatedAuthError(desc)
	}

	if tokenResp.IDToken == "" {
		return "", FederatedAuthError("identity provider returned no id_token")
	}

	return tokenResp.IDToken, nil
}

// IdentityHint is the display subset of an id_token's claims.
type IdentityHint struct {
	Email   string
	Name    string
	Picture string
}

// PeekIdentity reads the display claims from an id_token without
// verifying its signature. Verification belongs to the backend; this
// only feeds the "signing in as" UI.
func PeekIdentity(idToken string) (*IdentityHint, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, FederatedAuthError("malformed id_token")
	}

	hint := &IdentityHint{}
	if v, ok := claims["email"].(string); ok {
		hint.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		hint.Name = v
	}
	if v, ok := claims["picture"].(string); ok {
		hint.Picture = v
	}

	return hint, nil
}
