package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/mbradford/expense-tracker/internal/domain"
)

// apiClient is a thin HTTP client for the expense-tracker API
type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(viper.GetString("api.url"), "/"),
		apiKey:  viper.GetString("api.key"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// problem mirrors the API's RFC 7807 error body
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
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
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

func (c *apiClient) decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var p problem
		if err := json.NewDecoder(resp.Body).Decode(&p); err == nil && (p.Detail != "" || p.Title != "") {
			if p.Detail != "" {
				return fmt.Errorf("%s", p.Detail)
			}
			return fmt.Errorf("%s", p.Title)
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// uploadFile posts a statement file as multipart form data
func (c *apiClient) uploadFile(ctx context.Context, path, filePath string, out interface{}) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// resolveExpenseID turns a full id or short prefix into exactly one expense
// id, mirroring the server's prefix rules: prefixes must be 3 to 8
// characters and unambiguous.
func (c *apiClient) resolveExpenseID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)

	var expense domain.Expense
	err := c.do(ctx, http.MethodGet, "/api/v1/expenses/"+id, nil, &expense)
	if err == nil {
		return expense.ID, nil
	}
	if len(id) < 3 || len(id) > 8 {
		return "", fmt.Errorf("expense %q not found", id)
	}

	var matches []*domain.Expense
	if err := c.do(ctx, http.MethodGet, "/api/v1/expenses/search?prefix="+id, nil, &matches); err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("expense %q not found", id)
	case 1:
		return matches[0].ID, nil
	default:
		return "", fmt.Errorf("prefix %q matches %d expenses, use a longer prefix", id, len(matches))
	}
}
