package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"aiblecode/internal/common"
)

// HTTPReviewGenerator calls an external review model service over HTTP.
type HTTPReviewGenerator struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPReviewGenerator(baseURL string) *HTTPReviewGenerator {
	return &HTTPReviewGenerator{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type reviewGenerationRequest struct {
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

type reviewGenerationResponse struct {
	Review string `json:"review"`
}

func (g *HTTPReviewGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload, err := json.Marshal(reviewGenerationRequest{System: systemPrompt, Prompt: userPrompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal review request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/reviews", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create review request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("review service unreachable: %w", common.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read review response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("review service returned %d: %w", resp.StatusCode, common.ErrServiceUnavailable)
	}

	var out reviewGenerationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode review response: %w", err)
	}
	return out.Review, nil
}
