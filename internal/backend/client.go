package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sozercan/ticket-dashboard/apimodels"
)

// StatusError is returned when the backend answers with anything but 200 OK.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

type Client struct {
	client *resty.Client
}

// NewClient returns a client for the analysis backend rooted at baseURL.
// A zero timeout keeps the HTTP client's default (no timeout). Requests are
// never retried.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	slog.Info("Creating backend client", "url", baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL cannot be empty")
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		client: client,
	}, nil
}

// Analyze uploads one file to POST /analyze and decodes the analysis artifacts.
func (c *Client) Analyze(ctx context.Context, fileName string, data []byte) (*apimodels.AnalyzeResponse, error) {
	slog.Info("Uploading dataset for analysis", "file", fileName, "bytes", len(data))

	res, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", fileName, bytes.NewReader(data)).
		Post("/analyze")
	if err != nil {
		slog.Error("Analyze request failed", "error", err)
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		slog.Error("Backend rejected analysis", "status_code", res.StatusCode(), "body", res.String())
		return nil, &StatusError{Endpoint: "/analyze", Code: res.StatusCode(), Body: res.String()}
	}

	var out apimodels.AnalyzeResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		slog.Error("Failed to decode analyze response", "error", err)
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	slog.Debug("Analyze request completed", "figs", len(out.Figs))
	return &out, nil
}

// Chat sends a question and the dataset sample to POST /chat.
func (c *Client) Chat(ctx context.Context, req apimodels.ChatRequest) (*apimodels.ChatResponse, error) {
	slog.Info("Sending chat question", "question_len", len(req.Question))

	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/chat")
	if err != nil {
		slog.Error("Chat request failed", "error", err)
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		slog.Error("Backend rejected chat question", "status_code", res.StatusCode(), "body", res.String())
		return nil, &StatusError{Endpoint: "/chat", Code: res.StatusCode(), Body: res.String()}
	}

	var out apimodels.ChatResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		slog.Error("Failed to decode chat response", "error", err)
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return &out, nil
}
