package ai

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const googleBaseURL = "https://generativelanguage.googleapis.com"

type googleRequest struct {
	Contents         []googleContent        `json:"contents"`
	GenerationConfig googleGenerationConfig `json:"generationConfig"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

func (g googleResponse) Text() string {
	if len(g.Candidates) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, part := range g.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}
	return builder.String()
}

// Gemini has no dedicated system role on this endpoint, so the instructions
// travel in the user turn ahead of the request.
func googlePromptText(gen generation) string {
	if gen.System == "" {
		return gen.Prompt
	}
	return gen.System + "\n\nUser request: " + gen.Prompt
}

func googleAdapter() providerAdapter {
	return providerAdapter{
		label:       "Google AI",
		defaultBase: googleBaseURL,
		url: func(base, model string) string {
			return strings.TrimRight(base, "/") + "/v1beta/models/" + url.PathEscape(model) + ":generateContent"
		},
		buildRequest: func(gen generation) ([]byte, error) {
			return json.Marshal(googleRequest{
				Contents: []googleContent{{
					Role:  "user",
					Parts: []googlePart{{Text: googlePromptText(gen)}},
				}},
				GenerationConfig: googleGenerationConfig{
					Temperature:     gen.Temperature,
					MaxOutputTokens: gen.MaxTokens,
				},
			})
		},
		setHeaders: func(req *http.Request, apiKey string) {
			req.Header.Set("x-goog-api-key", apiKey)
		},
		parseResponse: func(body []byte) (string, error) {
			var decoded googleResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return "", err
			}
			return decoded.Text(), nil
		},
	}
}
