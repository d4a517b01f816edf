package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is the prefill payload for the content form. Every field may be
// empty; the admin edits whatever the lookup got wrong.
type Result struct {
	Synopsis    string   `json:"synopsis"`
	Cast        []string `json:"cast"`
	Genres      []string `json:"genres"`
	Rating      string   `json:"rating"`
	ReleaseYear string   `json:"releaseYear"`
}

// lookupTimeout caps one metadata call end to end. The admin form waits
// on this request, so a slow upstream degrades to manual entry instead
// of a hung spinner.
const lookupTimeout = 20 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: lookupTimeout,
		},
	}
}

const lookupSystemPrompt = `You are a movie and series database. Given a title, produce a JSON object with:
- "synopsis": A 2-3 sentence plot summary in French.
- "cast": An array of 3-6 main actor names (strings).
- "genres": An array of 1-4 genre names (strings).
- "rating": An age rating such as "Tous publics", "-12", "-16" or "-18".
- "releaseYear": The release year as a string.

If you do not know the title, return the JSON object with empty values.
Return ONLY valid JSON, no markdown formatting.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Lookup asks the model for catalog metadata on one title.
func (c *Client) Lookup(ctx context.Context, title string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: lookupSystemPrompt},
			{Role: "user", Content: title},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("metadata API returned empty choices")
	}

	return parseResultJSON(chatResp.Choices[0].Message.Content)
}

func parseResultJSON(content string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return &result, nil
	}

	stripped := stripMarkdownFences(content)
	if err := json.Unmarshal([]byte(stripped), &result); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}

	return &result, nil
}

func stripMarkdownFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		firstNewline := strings.Index(trimmed, "\n")
		if firstNewline == -1 {
			return trimmed
		}
		trimmed = trimmed[firstNewline+1:]

		if idx := strings.LastIndex(trimmed, "```"); idx != -1 {
			trimmed = trimmed[:idx]
		}

		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
