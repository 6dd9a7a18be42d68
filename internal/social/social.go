// Package social verifies identity tokens issued by Google and Facebook.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"

	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	facebookGraphURL   = "https://graph.facebook.com"
)

var ErrInvalidToken = errors.New("invalid social token")

type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	Picture  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type GoogleVerifier struct {
	ClientID     string
	TokenInfoURL string
	HTTP         *http.Client
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		ClientID:     clientID,
		TokenInfoURL: googleTokenInfoURL,
		HTTP:         &http.Client{Timeout: 5 * time.Second},
	}
}

// Verify checks an ID token against the tokeninfo endpoint and the
// configured audience.
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if g.ClientID == "" {
		return Identity{}, errors.New("google client id is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.TokenInfoURL+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return Identity{}, err
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("google tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: tokeninfo status %d", ErrInvalidToken, resp.StatusCode)
	}

	var payload struct {
		Audience string `json:"aud"`
		Subject  string `json:"sub"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Picture  string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("google tokeninfo decode: %w", err)
	}
	if payload.Audience != g.ClientID {
		return Identity{}, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if payload.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Identity{
		Provider: ProviderGoogle,
		Subject:  payload.Subject,
		Email:    payload.Email,
		Name:     payload.Name,
		Picture:  payload.Picture,
	}, nil
}

type FacebookVerifier struct {
	GraphURL string
	// HTTP is the base transport the oauth2 client wraps.
	HTTP *http.Client
}

func NewFacebookVerifier() *FacebookVerifier {
	return &FacebookVerifier{
		GraphURL: facebookGraphURL,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (f *FacebookVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if f.HTTP != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.HTTP)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.GraphURL+"/me?fields=id,name,email,picture", nil)
	if err != nil {
		return Identity{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("facebook graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: graph status %d", ErrInvalidToken, resp.StatusCode)
	}

	var me struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return Identity{}, fmt.Errorf("facebook graph decode: %w", err)
	}
	if me.ID == "" {
		return Identity{}, fmt.Errorf("%w: missing id", ErrInvalidToken)
	}

	return Identity{
		Provider: ProviderFacebook,
		Subject:  me.ID,
		Email:    me.Email,
		Name:     me.Name,
		Picture:  me.Picture.Data.URL,
	}, nil
}
