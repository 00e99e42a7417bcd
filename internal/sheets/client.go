// Package sheets reads ranges from Google Sheets with a service account.
package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"udyami/internal/config"
	"udyami/internal/domain"
)

const (
	scope         = "https://www.googleapis.com/auth/spreadsheets"
	grantType     = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionTTL  = time.Hour
	refreshMargin = time.Minute
)

// assertionClaims is the service-account grant. aud is a plain string, which
// the token endpoint requires.
type assertionClaims struct {
	jwt.RegisteredClaims
	Audience string `json:"aud"`
	Scope    string `json:"scope"`
}

// Client implements port.SheetReader against the Sheets v4 values API.
type Client struct {
	email         string
	key           *rsa.PrivateKey
	spreadsheetID string
	tokenURI      string
	baseURL       string
	client        *http.Client
	now           func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a Sheets client. It returns domain.ErrSheetsDisabled when
// credentials are not configured.
func NewClient(cfg *config.SheetsConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, domain.ErrSheetsDisabled
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		email:         cfg.ClientEmail,
		key:           key,
		spreadsheetID: cfg.SpreadsheetID,
		tokenURI:      cfg.TokenURI,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		client:        &http.Client{Timeout: timeout},
		now:           time.Now,
	}, nil
}

// ReadRange returns the cell values of sheet!cellRange as strings.
func (c *Client) ReadRange(ctx context.Context, sheet, cellRange string) ([][]string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	a1 := "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cellRange
	endpoint := c.baseURL + "/" + url.PathEscape(c.spreadsheetID) + "/values/" + url.PathEscape(a1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling sheets API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets API error (status %d): %s", resp.StatusCode, truncate(string(body), 300))
	}

	var payload struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling values: %w", err)
	}

	out := make([][]string, len(payload.Values))
	for i, row := range payload.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out, nil
}

// accessToken returns a cached token or exchanges a fresh signed assertion.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && now.Before(c.tokenExpiry.Add(-refreshMargin)) {
		return c.token, nil
	}

	assertion, err := c.signAssertion(now)
	if err != nil {
		return "", fmt.Errorf("signing assertion: %w", err)
	}

	form := url.Values{"grant_type": {grantType}, "assertion": {assertion}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling token endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint error (status %d): %s", resp.StatusCode, truncate(string(body), 300))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("unmarshaling token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}
	if tok.ExpiresIn <= 0 {
		tok.ExpiresIn = int(assertionTTL / time.Second)
	}

	c.token = tok.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

func (c *Client) signAssertion(now time.Time) (string, error) {
	claims := &assertionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(assertionTTL)),
		},
		Audience: c.tokenURI,
		Scope:    scope,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.key)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
