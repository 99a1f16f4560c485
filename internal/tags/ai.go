package tags

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AIClient talks to an Ollama-compatible generate endpoint.
type AIClient struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewAIClient creates a client for the given endpoint and model.
func NewAIClient(baseURL, model string) *AIClient {
	return &AIClient{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

const tagPrompt = `You are a tagging assistant for a lost-and-found registry.
Extract up to 8 short lowercase keyword tags that describe the physical item below.
Focus on brand, color, model and distinguishing features. No sentences.

Title: %s
Description: %s

Return valid JSON only. Format: {"tags": ["...", "..."]}. No markdown.`

// SuggestTags asks the model for tags. Callers must treat any error as a
// signal to use the deterministic fallback.
func (c *AIClient) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	reqBody := generateRequest{
		Model:  c.Model,
		Prompt: fmt.Sprintf(tagPrompt, title, description),
		Stream: false,
		Format: "json",
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model API returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, err
	}

	return parseTags(genResp.Response)
}

// parseTags extracts the tags array from the model's reply, tolerating
// markdown fences and surrounding chatter.
func parseTags(responseText string) ([]string, error) {
	clean := stripFences(responseText)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var parsed struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(clean[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}
	if parsed.Tags == nil {
		return nil, fmt.Errorf("model response missing tags array")
	}

	return parsed.Tags, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
