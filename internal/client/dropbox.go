package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dotworkers/api/internal/config"
)

const (
	dropboxAPIURL     = "https://api.dropboxapi.com/2"
	dropboxContentURL = "https://content.dropboxapi.com/2"
	dropboxTokenURL   = "https://api.dropbox.com/oauth2/token"
)

// DropboxEntry is one item in a folder listing.
type DropboxEntry struct {
	Tag  string `json:".tag"`
	Name string `json:"name"`
}

// DropboxClient wraps the Dropbox HTTP API for filing operations. The OAuth
// access token is cached on the instance behind a mutex and lazily refreshed
// with a 5 minute expiry buffer.
type DropboxClient struct {
	httpClient   *http.Client
	apiURL       string
	contentURL   string
	tokenURL     string
	appKey       string
	appSecret    string
	refreshToken string

	mu             sync.Mutex
	accessToken    string
	tokenExpiresAt time.Time
}

// NewDropboxClient creates a new Dropbox filing client
func NewDropboxClient(cfg *config.DropboxConfig) *DropboxClient {
	return &DropboxClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		apiURL:       dropboxAPIURL,
		contentURL:   dropboxContentURL,
		tokenURL:     dropboxTokenURL,
		appKey:       cfg.AppKey,
		appSecret:    cfg.AppSecret,
		refreshToken: cfg.RefreshToken,
	}
}

// IsConfigured returns true if the client has valid configuration
func (c *DropboxClient) IsConfigured() bool {
	return c.appKey != "" && c.appSecret != "" && c.refreshToken != ""
}

// getAccessToken returns a cached access token, refreshing when within the
// expiry buffer.
func (c *DropboxClient) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiresAt.Add(-5*time.Minute)) {
		return c.accessToken, nil
	}

	if !c.IsConfigured() {
		return "", fmt.Errorf("dropbox credentials not configured (need APP_KEY, APP_SECRET, REFRESH_TOKEN)")
	}

	log.Printf("[file] Refreshing Dropbox access token...")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)
	form.Set("client_id", c.appKey)
	form.Set("client_secret", c.appSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token refresh failed: %d - %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	expiresIn := result.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 14400
	}

	c.accessToken = result.AccessToken
	c.tokenExpiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)

	log.Printf("[file] Dropbox token refreshed OK")
	return c.accessToken, nil
}

// Move moves a file, creating the destination folder and retrying once when
// it doesn't exist yet.
func (c *DropboxClient) Move(ctx context.Context, fromPath, toPath string) error {
	payload := map[string]interface{}{
		"from_path":  fromPath,
		"to_path":    toPath,
		"autorename": true,
	}

	body, status, err := c.rpc(ctx, "/files/move_v2", payload)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	// 409 with a missing destination: create the folder and retry once
	if status == http.StatusConflict && strings.Contains(string(body), "not_found") {
		destFolder := toPath
		if i := strings.LastIndex(toPath, "/"); i > 0 {
			destFolder = toPath[:i]
		}
		if err := c.CreateFolder(ctx, destFolder); err != nil {
			return err
		}

		retryBody, retryStatus, err := c.rpc(ctx, "/files/move_v2", payload)
		if err != nil {
			return err
		}
		if retryStatus == http.StatusOK {
			return nil
		}
		return fmt.Errorf("dropbox move retry failed: %d - %s", retryStatus, truncate(string(retryBody), 200))
	}

	return fmt.Errorf("dropbox move failed: %d - %s", status, truncate(string(body), 200))
}

// CreateFolder creates a folder; an already-existing folder is not an error.
func (c *DropboxClient) CreateFolder(ctx context.Context, path string) error {
	body, status, err := c.rpc(ctx, "/files/create_folder_v2", map[string]interface{}{
		"path":       path,
		"autorename": false,
	})
	if err != nil {
		return err
	}
	if status == http.StatusOK || status == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("dropbox create folder failed: %d - %s", status, truncate(string(body), 200))
}

// ListFolder lists the entries of a folder.
func (c *DropboxClient) ListFolder(ctx context.Context, path string) ([]DropboxEntry, error) {
	body, status, err := c.rpc(ctx, "/files/list_folder", map[string]interface{}{"path": path})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("dropbox list folder failed: %d - %s", status, truncate(string(body), 200))
	}

	var result struct {
		Entries []DropboxEntry `json:"entries"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list response: %w", err)
	}
	return result.Entries, nil
}

// Upload uploads content as a new file.
func (c *DropboxClient) Upload(ctx context.Context, path, content string) error {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}

	apiArg, err := json.Marshal(map[string]interface{}{
		"path":       path,
		"mode":       "add",
		"autorename": true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal upload arg: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentURL+"/files/upload", strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Dropbox-API-Arg", string(apiArg))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dropbox upload failed: %d - %s", resp.StatusCode, truncate(string(body), 200))
	}
	return nil
}

// rpc posts a JSON payload to an api.dropboxapi.com endpoint and returns the
// raw body and status for the caller to interpret.
func (c *DropboxClient) rpc(ctx context.Context, endpoint string, payload interface{}) ([]byte, int, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
