package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client — HTTP-клиент AI-провайдера.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент AI-провайдера.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		apiURL:     "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithURL создаёт клиент с явным адресом API. Используется в тестах.
func NewClientWithURL(apiKey, model, apiURL string) *Client {
	c := NewClient(apiKey, model)
	c.apiURL = apiURL
	return c
}

// GenerateProposal запрашивает у провайдера текст заявки по промпту.
// Возвращает сгенерированный текст и количество израсходованных токенов.
func (c *Client) GenerateProposal(ctx context.Context, prompt string) (string, int, error) {
	const op = "aiprovider.GenerateProposal"

	reqBody := GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.apiURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("%s: %w", op, errors.New("empty response from provider"))
	}
	return genResp.Candidates[0].Content.Parts[0].Text, genResp.UsageMetadata.TotalTokenCount, nil
}
