package ai

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// FirstText returns the first text block; tool or thinking blocks are skipped.
func (a anthropicResponse) FirstText() string {
	for _, block := range a.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text
		}
	}
	return ""
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		label:       "Anthropic",
		defaultBase: anthropicBaseURL,
		url: func(base, _ string) string {
			return strings.TrimRight(base, "/") + "/v1/messages"
		},
		buildRequest: func(gen generation) ([]byte, error) {
			return json.Marshal(anthropicRequest{
				Model:       gen.Model,
				MaxTokens:   gen.MaxTokens,
				System:      gen.System,
				Temperature: gen.Temperature,
				Messages: []anthropicMessage{{
					Role:    "user",
					Content: []anthropicContent{{Type: "text", Text: gen.Prompt}},
				}},
			})
		},
		setHeaders: func(req *http.Request, apiKey string) {
			req.Header.Set("x-api-key", apiKey)
			req.Header.Set("anthropic-version", anthropicVersion)
		},
		parseResponse: func(body []byte) (string, error) {
			var decoded anthropicResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return "", err
			}
			return decoded.FirstText(), nil
		},
	}
}
