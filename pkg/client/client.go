// Package client is a typed HTTP client for the envault API, used by
// envaultctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/envault/envault/pkg/clientconfig"
	"github.com/envault/envault/pkg/export"
	"github.com/envault/envault/pkg/model"
)

// DefaultTimeout bounds each API request
const DefaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client for the server at base, authenticating with token.
func New(base, token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is required")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// FromConfig builds a Client from saved client settings
func FromConfig(cfg *clientconfig.Config, opts ...Option) (*Client, error) {
	return New(cfg.Server, cfg.Token, opts...)
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Error)
}

// Whoami reflects the /whoami payload.
type Whoami struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	Method    string     `json:"method"`
	Admin     bool       `json:"admin"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Project is a project with the caller's role and, when fetched singly,
// its environments.
type Project struct {
	model.Project
	Role         string              `json:"role"`
	Environments []model.Environment `json:"environments,omitempty"`
}

// Secret reflects a secret in a listing. Value is masked unless revealed.
type Secret struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Masked    bool      `json:"masked"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Export is a downloaded secrets file.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) Whoami(ctx context.Context) (*Whoami, error) {
	var out Whoami
	if err := c.do(ctx, http.MethodGet, "/whoami", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSecrets lists an environment's secrets. reveal asks the server for
// plaintext values, which it audits.
func (c *Client) ListSecrets(ctx context.Context, environmentID string, reveal bool) ([]Secret, error) {
	path := "/api/environments/" + url.PathEscape(environmentID) + "/secrets"
	if reveal {
		path += "?reveal=true"
	}
	var out []Secret
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSecret creates or updates one secret. It reports whether the key is new.
func (c *Client) SetSecret(ctx context.Context, environmentID, key, value string) (bool, error) {
	path := "/api/environments/" + url.PathEscape(environmentID) + "/secrets/" + url.PathEscape(key)
	var out struct {
		Created bool `json:"created"`
	}
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"value": value}, &out); err != nil {
		return false, err
	}
	return out.Created, nil
}

// Export downloads an environment in the given format.
func (c *Client) Export(ctx context.Context, environmentID string, format export.Format) (*Export, error) {
	path := "/api/environments/" + url.PathEscape(environmentID) + "/export?format=" + url.QueryEscape(string(format))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	out := &Export{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		out.Filename = params["filename"]
	}
	return out, nil
}

// Import uploads a secrets file in the given format.
func (c *Client) Import(ctx context.Context, environmentID string, format export.Format, data []byte) (*ImportResult, error) {
	path := "/api/environments/" + url.PathEscape(environmentID) + "/import?format=" + url.QueryEscape(string(format))
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data), export.ContentType(format))
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) ListTokens(ctx context.Context) ([]model.CLIToken, error) {
	var out []model.CLIToken
	if err := c.do(ctx, http.MethodGet, "/api/tokens", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateToken issues a CLI token. The plaintext is only returned here.
func (c *Client) CreateToken(ctx context.Context, name string, expiresInDays int) (*model.GeneratedCLIToken, error) {
	body := map[string]any{"name": name, "expires_in_days": expiresInDays}
	var out model.GeneratedCLIToken
	if err := c.do(ctx, http.MethodPost, "/api/tokens", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeToken(ctx context.Context, tokenID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tokens/"+url.PathEscape(tokenID), nil, nil)
}
