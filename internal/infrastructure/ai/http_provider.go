package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

const maxErrorBodyBytes = 4096

// generation is the provider neutral request handed to an adapter.
type generation struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// providerAdapter captures the wire differences between backends.
type providerAdapter struct {
	label         string
	defaultBase   string
	url           func(base, model string) string
	buildRequest  func(generation) ([]byte, error)
	setHeaders    func(req *http.Request, apiKey string)
	parseResponse func([]byte) (string, error)
	// transportHint is appended to connection errors.
	transportHint func(base string) string
}

type httpProvider struct {
	id          domain.ProviderID
	requiresKey bool
	apiKey      string
	base        string
	gen         generation
	httpClient  *http.Client
	adapter     providerAdapter
}

func (p *httpProvider) Name() string {
	return string(p.id)
}

func (p *httpProvider) IsConfigured() bool {
	return !p.requiresKey || p.apiKey != ""
}

// GenerateCommand sends prompt with the system instructions and returns the
// trimmed reply. An empty body or a reply without content yields "".
func (p *httpProvider) GenerateCommand(ctx context.Context, prompt string) (string, error) {
	if !p.IsConfigured() {
		return "", p.fail(errors.New("client not configured, set an API key with `baishi setup`"))
	}

	gen := p.gen
	gen.Prompt = prompt
	body, err := p.adapter.buildRequest(gen)
	if err != nil {
		return "", p.fail(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.adapter.url(p.base, gen.Model), bytes.NewReader(body))
	if err != nil {
		return "", p.fail(err)
	}
	httpReq.Header.Set("content-type", "application/json")
	if p.adapter.setHeaders != nil {
		p.adapter.setHeaders(httpReq, p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if p.adapter.transportHint != nil {
			err = fmt.Errorf("%w. %s", err, p.adapter.transportHint(p.base))
		}
		return "", p.fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			return "", p.fail(errors.New(resp.Status))
		}
		return "", p.fail(fmt.Errorf("%s: %s", resp.Status, msg))
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return "", p.fail(err)
	}
	if len(bytes.TrimSpace(responseBody.Bytes())) == 0 {
		return "", nil
	}

	content, err := p.adapter.parseResponse(responseBody.Bytes())
	if err != nil {
		return "", p.fail(fmt.Errorf("decode response: %w", err))
	}
	return strings.TrimSpace(content), nil
}

// FormatOutput asks the same model to summarize command output for query.
func (p *httpProvider) FormatOutput(ctx context.Context, output, query string) (string, error) {
	return p.GenerateCommand(ctx, buildFormatPrompt(output, query))
}

func (p *httpProvider) fail(err error) error {
	return &domain.ProviderError{Provider: p.adapter.label, Err: err}
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func valueOrDefaultInt(value int, def int) int {
	if value == 0 {
		return def
	}
	return value
}

var _ ports.Provider = (*httpProvider)(nil)
