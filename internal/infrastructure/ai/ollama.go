package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/baishi/internal/domain"
)

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message chatMessage `json:"message"`
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		label:       "Ollama",
		defaultBase: domain.DefaultOllamaHost,
		url: func(base, _ string) string {
			return strings.TrimRight(base, "/") + "/api/chat"
		},
		buildRequest: func(gen generation) ([]byte, error) {
			return json.Marshal(ollamaRequest{
				Model:    gen.Model,
				Messages: chatMessages(gen),
				Stream:   false,
				Options: ollamaOptions{
					Temperature: gen.Temperature,
					NumPredict:  gen.MaxTokens,
				},
			})
		},
		parseResponse: func(body []byte) (string, error) {
			var decoded ollamaResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return "", err
			}
			return decoded.Message.Content, nil
		},
		transportHint: func(base string) string {
			return fmt.Sprintf("Make sure Ollama is running at %s", base)
		},
	}
}
