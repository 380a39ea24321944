package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "SUMPRO_HTTP_TIMEOUT"
	adminTokenEnvKey   = "SUMPRO_ADMIN_TOKEN"
)

// Client is a simple HTTP client for the sumpro API. Admin endpoints
// authenticate with the bearer token from SUMPRO_ADMIN_TOKEN.
type Client struct {
	baseURL    string
	http       *http.Client
	adminToken string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: httpTimeoutFromEnv()},
		adminToken: strings.TrimSpace(os.Getenv(adminTokenEnvKey)),
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// SubmitApplication uploads a résumé and creates an application record.
func (c *Client) SubmitApplication(ctx context.Context, fullName, email, position, filename string, resume io.Reader) (Application, error) {
	var resp Application

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"full_name": fullName,
		"email":     email,
		"position":  position,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return resp, err
		}
	}
	part, err := mw.CreateFormFile("resume", filename)
	if err != nil {
		return resp, err
	}
	if _, err := io.Copy(part, resume); err != nil {
		return resp, err
	}
	if err := mw.Close(); err != nil {
		return resp, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/applications", &body)
	if err != nil {
		return resp, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

func (c *Client) ListApplications(ctx context.Context) ([]Application, error) {
	var resp []Application
	err := c.do(ctx, http.MethodGet, "/v1/applications", nil, &resp)
	return resp, err
}

func (c *Client) GetApplication(ctx context.Context, id string) (Application, error) {
	var resp Application
	err := c.do(ctx, http.MethodGet, "/v1/applications/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id, status string) (Application, error) {
	var resp Application
	err := c.do(ctx, http.MethodPut, "/v1/applications/"+url.PathEscape(id),
		ApplicationStatusUpdateRequest{Status: status}, &resp)
	return resp, err
}

func (c *Client) DeleteApplication(ctx context.Context, id string) (ApplicationDeleteResponse, error) {
	var resp ApplicationDeleteResponse
	err := c.do(ctx, http.MethodDelete, "/v1/applications/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

func (c *Client) SendContact(ctx context.Context, req ContactRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/contact", req, nil)
}

func (c *Client) CreateAdminUser(ctx context.Context, email, password string) (AdminUser, error) {
	var resp AdminUser
	err := c.do(ctx, http.MethodPost, "/v1/admin/users",
		AdminUserCreateRequest{Email: email, Password: password}, &resp)
	return resp, err
}

func (c *Client) ListAdminUsers(ctx context.Context) ([]AdminUser, error) {
	var resp []AdminUser
	err := c.do(ctx, http.MethodGet, "/v1/admin/users", nil, &resp)
	return resp, err
}

func (c *Client) SetAdminUserDisabled(ctx context.Context, email string, disabled bool) (AdminUser, error) {
	var resp AdminUser
	err := c.do(ctx, http.MethodPatch, "/v1/admin/users/"+url.PathEscape(email),
		AdminUserSetDisabledRequest{Disabled: disabled}, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      errResp.Code,
			ErrorCode: errResp.ErrorCode,
			Message:   errResp.Error,
		}
	}
	return fmt.Errorf("api error: %s", resp.Status)
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.adminToken == "" || req == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.adminToken)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
