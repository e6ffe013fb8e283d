package ai

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	openAIBaseURL     = "https://api.openai.com"
	openRouterBaseURL = "https://openrouter.ai/api"

	openRouterReferer = "https://github.com/baishi"
	openRouterTitle   = "Baishi AI Shell"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c chatCompletionResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

func chatMessages(gen generation) []chatMessage {
	messages := make([]chatMessage, 0, 2)
	if gen.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: gen.System})
	}
	return append(messages, chatMessage{Role: "user", Content: gen.Prompt})
}

func buildChatCompletionRequest(gen generation) ([]byte, error) {
	return json.Marshal(chatCompletionRequest{
		Model:       gen.Model,
		Messages:    chatMessages(gen),
		MaxTokens:   gen.MaxTokens,
		Temperature: gen.Temperature,
	})
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	return decoded.FirstMessage(), nil
}

func chatCompletionsURL(base, _ string) string {
	return strings.TrimRight(base, "/") + "/v1/chat/completions"
}

func setBearer(req *http.Request, apiKey string) {
	req.Header.Set("authorization", "Bearer "+apiKey)
}

func openaiAdapter() providerAdapter {
	return providerAdapter{
		label:         "OpenAI",
		defaultBase:   openAIBaseURL,
		url:           chatCompletionsURL,
		buildRequest:  buildChatCompletionRequest,
		setHeaders:    setBearer,
		parseResponse: parseChatCompletionResponse,
	}
}

func openRouterAdapter() providerAdapter {
	return providerAdapter{
		label:        "OpenRouter",
		defaultBase:  openRouterBaseURL,
		url:          chatCompletionsURL,
		buildRequest: buildChatCompletionRequest,
		setHeaders: func(req *http.Request, apiKey string) {
			setBearer(req, apiKey)
			req.Header.Set("HTTP-Referer", openRouterReferer)
			req.Header.Set("X-Title", openRouterTitle)
		},
		parseResponse: parseChatCompletionResponse,
	}
}
