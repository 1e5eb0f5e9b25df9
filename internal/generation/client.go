// AngelaMos | 2026
// client.go

package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/angelamos/logoforge/internal/config"
)

var (
	// ErrProviderUnauthorized means the upstream rejected the API key.
	ErrProviderUnauthorized = errors.New("image provider rejected the API key")
	// ErrProviderForbidden means the upstream account is blocked on billing
	// or verification grounds.
	ErrProviderForbidden = errors.New("image provider account is blocked")
	// ErrNotConfigured means no provider URL or key is available for the call.
	ErrNotConfigured = errors.New("image provider not configured")
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	imageSize  int
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg config.ProviderConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		imageSize: cfg.ImageSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate requests count images for the prompt, one upstream call per
// image, strictly sequential to stay inside upstream rate limits. The first
// failure aborts the sequence; partial results are never returned.
func (c *Client) Generate(
	ctx context.Context,
	prompt string,
	count int,
	apiKeyOverride string,
) ([]string, error) {
	key := c.apiKey
	if apiKeyOverride != "" {
		key = apiKeyOverride
	}

	if c.baseURL == "" || key == "" {
		return nil, ErrNotConfigured
	}

	images := make([]string, 0, count)
	for i := 0; i < count; i++ {
		img, err := c.generateOne(ctx, prompt, key)
		if err != nil {
			return nil, fmt.Errorf("generate image %d of %d: %w", i+1, count, err)
		}
		images = append(images, img)
	}

	return images, nil
}

func (c *Client) generateOne(
	ctx context.Context,
	prompt, key string,
) (string, error) {
	body, err := json.Marshal(imageRequest{
		Model:          c.model,
		Prompt:         prompt,
		Width:          c.imageSize,
		Height:         c.imageSize,
		N:              1,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/images/generations",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", c.mapProviderError(resp.StatusCode, rawBody)
	}

	var decoded imageResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return "", fmt.Errorf(
			"decode provider response: %w (body=%s)",
			err,
			truncateBody(rawBody),
		)
	}

	if len(decoded.Data) == 0 || decoded.Data[0].B64JSON == "" {
		return "", fmt.Errorf("provider returned no image data")
	}

	return decoded.Data[0].B64JSON, nil
}

// mapProviderError pattern-matches the known upstream rejection shapes.
func (c *Client) mapProviderError(status int, rawBody []byte) error {
	bodyText := strings.ToLower(string(rawBody))

	switch {
	case status == http.StatusUnauthorized,
		strings.Contains(bodyText, "invalid api key"),
		strings.Contains(bodyText, "invalid_api_key"):
		return ErrProviderUnauthorized

	case status == http.StatusForbidden,
		status == http.StatusPaymentRequired,
		strings.Contains(bodyText, "credit card"),
		strings.Contains(bodyText, "verification"):
		return ErrProviderForbidden
	}

	c.log.Error("provider request failed",
		"status", status,
		"body", truncateBody(rawBody),
	)

	return fmt.Errorf("provider error: status=%d body=%s", status, truncateBody(rawBody))
}

func truncateBody(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
