package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/lkzhao/AITranslate/langmeta"
)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderGemini       = "gemini"
	ProviderOpenAI       = "openai"
	ProviderCustomOpenAI = "custom-openai"
)

// Provider holds the configuration for an AI translation service.
type Provider struct {
	// ID is the provider identifier (gemini, openai, custom-openai).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key.
	APIKey string
	// Model is the model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderGemini: {
			ID:      ProviderGemini,
			Name:    "Google AI (Gemini)",
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.0-flash",
			Timeout: 60 * time.Second,
		},
		ProviderOpenAI: {
			ID:      ProviderOpenAI,
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		ProviderCustomOpenAI: {
			ID:      ProviderCustomOpenAI,
			Name:    "Custom OpenAI-compatible endpoint",
			Timeout: 60 * time.Second,
		},
	}
}

// ---------------------------------------------------------------------------
// System prompt
// ---------------------------------------------------------------------------

// SystemPrompt instructs the model to translate a single localization unit.
const SystemPrompt = `You are a professional translator specializing in software and product localization. You are translating UI strings for a software application.

IMPORTANT TRANSLATION PRINCIPLES:
- Translate for NATURALNESS and FLUENCY in {{targetLang}}, not word-for-word.
- Use established software terminology standard in the {{targetLang}} tech community.
- Keep brand names and proper nouns unchanged.
- When a glossary of approved translations is provided, use those translations for the listed terms EXACTLY and consistently.

TECHNICAL REQUIREMENTS:
- Preserve all format specifiers exactly as-is (%s, %d, %@, %lld, {name}, etc.).
- Preserve markdown markup, leading/trailing whitespace, newlines, and punctuation patterns.
- Return ONLY the translated text, no explanations, no quotes, no markdown code blocks.`

// ---------------------------------------------------------------------------
// HTTP client with proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ---------------------------------------------------------------------------
// Request builders
// ---------------------------------------------------------------------------

func buildOpenAIChatRequest(model, systemPrompt, userPrompt string) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		Stream      bool    `json:"stream"`
	}{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
		Stream:      false,
	}
	return json.Marshal(req)
}

func buildGeminiRequest(systemPrompt, userPrompt string) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature float64 `json:"temperature"`
	}
	req := struct {
		Contents          []content `json:"contents"`
		GenerationConfig  genConfig `json:"generationConfig"`
		SystemInstruction *content  `json:"systemInstruction,omitempty"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
		GenerationConfig: genConfig{Temperature: 0.2},
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	return json.Marshal(req)
}

// ---------------------------------------------------------------------------
// Response parsing
// ---------------------------------------------------------------------------

// extractResponseText tries all known response formats and returns the text.
func extractResponseText(body []byte) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}

	if errObj, ok := raw["error"]; ok {
		if errMap, ok := errObj.(map[string]any); ok {
			if msg, ok := errMap["message"].(string); ok {
				return "", fmt.Errorf("API error: %s", msg)
			}
		}
		return "", fmt.Errorf("API error: %v", errObj)
	}

	// OpenAI chat format: choices[0].message.content
	if choices, ok := raw["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if content, ok := message["content"].(string); ok {
					return content, nil
				}
			}
		}
	}

	// Gemini format: candidates[0].content.parts[0].text
	if candidates, ok := raw["candidates"].([]any); ok && len(candidates) > 0 {
		if candidate, ok := candidates[0].(map[string]any); ok {
			if content, ok := candidate["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]any); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}

	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Client calls an HTTP AI provider to translate one unit at a time.
// It implements Service.
type Client struct {
	provider Provider
	http     *http.Client
}

// NewClient builds a translation client for the given provider.
func NewClient(p Provider) *Client {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		provider: p,
		http:     makeHTTPClient(p.Proxy, timeout),
	}
}

// Translate sends a single unit to the provider and returns the translated
// text. Any failure, including a timeout, is returned as an error and is
// recoverable at the orchestration layer.
func (c *Client) Translate(ctx context.Context, text string, req Request) (string, error) {
	systemPrompt := strings.ReplaceAll(SystemPrompt, "{{targetLang}}", langmeta.Name(req.TargetLanguage))
	userPrompt := buildUserPrompt(text, req)

	endpoint, headers, body, err := c.buildHTTPRequest(systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", c.provider.ID, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned HTTP %d: %s", c.provider.ID, resp.StatusCode, truncate(string(respBody), 300))
	}

	out, err := extractResponseText(respBody)
	if err != nil {
		return "", err
	}
	return cleanResponse(out), nil
}

// buildHTTPRequest assembles the endpoint URL, headers, and body for the
// provider's API format.
func (c *Client) buildHTTPRequest(systemPrompt, userPrompt string) (string, map[string]string, []byte, error) {
	prov := c.provider
	switch prov.ID {
	case ProviderGemini:
		body, err := buildGeminiRequest(systemPrompt, userPrompt)
		if err != nil {
			return "", nil, nil, err
		}
		endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
			strings.TrimRight(prov.BaseURL, "/"), prov.Model)
		headers := map[string]string{"x-goog-api-key": prov.APIKey}
		return endpoint, headers, body, nil

	case ProviderOpenAI, ProviderCustomOpenAI:
		body, err := buildOpenAIChatRequest(prov.Model, systemPrompt, userPrompt)
		if err != nil {
			return "", nil, nil, err
		}
		endpoint := strings.TrimRight(prov.BaseURL, "/") + "/chat/completions"
		headers := map[string]string{"Authorization": "Bearer " + prov.APIKey}
		return endpoint, headers, body, nil

	default:
		return "", nil, nil, fmt.Errorf("unknown provider %q", prov.ID)
	}
}

// buildUserPrompt renders the translation request as a prompt: direction,
// optional context, the glossary of approved translations, and the text.
func buildUserPrompt(text string, req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text from %s to %s.\n",
		langmeta.Name(req.SourceLanguage), langmeta.Name(req.TargetLanguage))

	if req.Context != "" {
		fmt.Fprintf(&b, "\nContext: %s\n", req.Context)
	}

	if len(req.Hints) > 0 {
		b.WriteString("\nGlossary (translate these terms consistently):\n")
		for _, term := range sortedHintKeys(req.Hints) {
			if translation := req.Hints[term]; translation != "" {
				fmt.Fprintf(&b, "- %q must be translated as %q\n", term, translation)
			} else {
				fmt.Fprintf(&b, "- %q has no approved translation yet; choose one and keep it consistent\n", term)
			}
		}
	}

	fmt.Fprintf(&b, "\nText:\n%s", text)
	return b.String()
}

// sortedHintKeys keeps prompts deterministic for identical requests.
func sortedHintKeys(hints map[string]string) []string {
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cleanResponse strips a wrapping markdown code fence that some models add
// despite instructions.
func cleanResponse(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```") && strings.HasSuffix(out, "```") {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "```"), "```")
		// Drop a language tag on the opening fence line.
		if idx := strings.Index(out, "\n"); idx >= 0 {
			out = out[idx+1:]
		}
		out = strings.TrimSpace(out)
	}
	return out
}
