package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-pro:generateContent"

// textPaths are probed in order against a generateContent response. The
// first one holding a string wins.
var textPaths = []string{
	"candidates.0.content.parts.0.text",
	"candidates.0.text",
	"output.0.content.parts.0.text",
	"output.0.text",
}

type GeminiClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiClient(url, apiKey string) *GeminiClient {
	if url == "" {
		url = DefaultGeminiURL
	}
	return &GeminiClient{
		url:        url,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GeminiClient) Name() string {
	return "Gemini"
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// A key given as "Bearer ..." is an OAuth token, anything else is an API key.
	if strings.HasPrefix(strings.ToLower(c.apiKey), "bearer ") {
		req.Header.Set("Authorization", c.apiKey)
	} else if c.apiKey != "" {
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("gemini error %s: %s", resp.Status, truncate(strings.TrimSpace(string(data)), 512))
	}

	return extractText(data)
}

func extractText(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("gemini decode: invalid JSON: %s", truncate(string(data), 512))
	}

	for _, path := range textPaths {
		res := gjson.GetBytes(data, path)
		if res.Type == gjson.String {
			return strings.TrimSpace(res.String()), nil
		}
	}

	return "", fmt.Errorf("gemini: no text in response: %s", truncate(string(data), 512))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}
